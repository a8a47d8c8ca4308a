package clock

import "time"

// Clock abstracts the current time so token expiry can be tested.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock is a controllable clock for tests.
type FakeClock struct {
	now time.Time
}

func NewFake(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

func (f *FakeClock) Now() time.Time {
	return f.now
}

func (f *FakeClock) Set(t time.Time) {
	f.now = t
}

func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
