package utils

import "time"

// Clock abstracts time so that lock ages, OTP recency and poll deadlines can
// be driven from tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// After waits for the duration to elapse and then sends the current time
	// on the returned channel.
	After(d time.Duration) <-chan time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

// NewRealClock returns a Clock backed by package time.
func NewRealClock() RealClock {
	return RealClock{}
}

// Now implements [Clock].
func (RealClock) Now() time.Time {
	return time.Now()
}

// After implements [Clock].
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
