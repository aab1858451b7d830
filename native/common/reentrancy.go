package common

import "errors"

// ErrReentrantCall is returned when a guarded operation is entered again while
// an outer invocation is still in flight, e.g. a payout recipient calling back
// into the engine before the outer accounting completed.
var ErrReentrantCall = errors.New("reentrant call")

// CallGuard is a non-blocking reentrancy latch shared by the mutating entry
// points of an engine. It deliberately rejects instead of waiting: nested
// re-entry mid-call is always a fault, never contention.
type CallGuard struct {
	busy bool
}

// Enter acquires the guard. The caller must invoke the returned release
// function once the guarded operation finishes.
func (g *CallGuard) Enter() (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	if g.busy {
		return nil, ErrReentrantCall
	}
	g.busy = true
	return func() { g.busy = false }, nil
}
