package shared

import "time"

// Clock supplies the current time. Time-driven logic (quote expiration,
// order number generation) takes a Clock so tests can control "now".
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
