// Package random abstracts random selection so move hints can be pinned
// down in tests.
package random

import (
	"crypto/rand"
	"math/big"
)

// Random picks an index in [0, n). Hint generation uses it to choose
// among the legal moves in a position.
type Random interface {
	Intn(n int) int
}

type cryptoSource struct{}

// New returns a Random backed by crypto/rand
func New() Random {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
