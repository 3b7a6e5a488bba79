package mocks

import (
	"time"

	"github.com/nachoupps/chessy/internal/dependencies/clock"
)

// MockClock is a manually advanced Clock. Poller tests move it past the
// debounce window instead of sleeping.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock returns a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by d
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}
