package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It decides which Vimshottari period is "current" and stamps exported calendars.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock frozen at a single instant.
type FixedClock time.Time

// Now returns the frozen instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
