// Package clock abstracts the wall clock so services and pollers can be
// tested deterministically. Game timestamps drive stale-update detection,
// so tests need full control over what "now" means.
package clock

import "time"

// Clock is the source of time for anything that stamps or compares
// last_updated values.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New returns a Clock backed by the system wall clock
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
