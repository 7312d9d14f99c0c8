// Package utils holds small shared infrastructure helpers.
package utils

import "time"

// Clock abstracts time.Now so repositories can stamp created_at/updated_at
// and tests can pin timestamps to a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed instant, adjustable between assertions.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
