package view

import "sync/atomic"

// Action is the disabled-control contract for a mutating call: while one
// invocation is in flight, further triggers are ignored instead of relying
// on server-side deduplication.
type Action struct {
	busy atomic.Bool
}

// Begin claims the action; it returns false when an invocation is already in
// flight.
func (a *Action) Begin() bool {
	return a.busy.CompareAndSwap(false, true)
}

func (a *Action) End() {
	a.busy.Store(false)
}

func (a *Action) Busy() bool {
	return a.busy.Load()
}

// Lifetime marks whether a page is still the one being displayed. A fetch
// settling after Leave must not write into the page's state; this is a
// liveness gate, not a transport cancellation.
type Lifetime struct {
	left atomic.Bool
}

func (l *Lifetime) Alive() bool {
	return !l.left.Load()
}

func (l *Lifetime) Leave() {
	l.left.Store(true)
}
