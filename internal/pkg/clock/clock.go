// Package clock abstracts the wall clock. Booking windows, cancellation
// deadlines and lead-time trimming all read time through it, so tests can
// pin or advance "now".
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock is a settable Clock for tests. It never ticks on its own.
type MockClock struct {
	now time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	return c.now
}

// Set jumps the clock to t.
func (c *MockClock) Set(t time.Time) {
	c.now = t
}

// Add moves the clock forward (or back, with a negative d) relative to the
// current mock time.
func (c *MockClock) Add(d time.Duration) {
	c.now = c.now.Add(d)
}
