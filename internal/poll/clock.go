package poll

import (
	"sync"
	"time"
)

// Clock abstracts the time operations used by polling loops so tests can
// run them without waiting.
type Clock interface {
	Now() time.Time

	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake is a Clock whose After returns immediately after advancing the fake
// time by d. It records every requested wait so tests can assert on the
// number and length of sleeps.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	sleeps  []time.Duration
}

func NewFake(initial time.Time) *Fake {
	return &Fake{current: initial}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sleeps = append(f.sleeps, d)
	if d > 0 {
		f.current = f.current.Add(d)
	}

	ch := make(chan time.Time, 1)
	ch <- f.current
	return ch
}

// Sleeps returns a copy of the durations passed to After, in call order.
func (f *Fake) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}
