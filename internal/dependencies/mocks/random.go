package mocks

import (
	"github.com/nachoupps/chessy/internal/dependencies/random"
)

// MockRandom returns queued values from Intn, then zeroes. With nothing
// queued a hint always picks the first legal move.
type MockRandom struct {
	queue []int
	next  int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom returns a MockRandom with an empty queue
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) Intn(n int) int {
	if r.next >= len(r.queue) {
		return 0
	}
	v := r.queue[r.next]
	r.next++
	return v
}

// QueueIntn appends values for subsequent Intn calls to return
func (r *MockRandom) QueueIntn(values ...int) {
	r.queue = append(r.queue, values...)
}
