// Package clock abstracts the wall clock so disruption timestamps and
// response times can be pinned in tests.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
	NowUnixMilli() int64
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// MockClock is a settable, goroutine-safe clock for tests.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock returns a MockClock stopped at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) NowUnixMilli() int64 {
	return m.Now().UnixMilli()
}

// Set moves the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock by d; negative durations move it back.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// InLocation wraps a clock so Now reports times in loc, which is how the
// control room reads disruption start and end times.
type InLocation struct {
	Clock    Clock
	Location *time.Location
}

func (c InLocation) Now() time.Time {
	now := c.Clock.Now()
	if c.Location == nil {
		return now
	}
	return now.In(c.Location)
}

func (c InLocation) NowUnixMilli() int64 {
	return c.Clock.NowUnixMilli()
}
