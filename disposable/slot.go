package disposable

import "sync"

// slot is the dispose-once bookkeeping every holder in this package is
// built on: a position in the state table plus the payload the holder
// keeps until it is disposed. Effects run after the lock is released.
type slot[P any] struct {
	mu      sync.Mutex
	state   state
	payload P
}

// set applies onSet. With effectRetain p is kept; with
// effectDisposeSupplied the caller must release p itself.
func (s *slot[P]) set(p P, owner string) (effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, eff, err := s.state.onSet(owner)
	if err != nil {
		return effectNone, err
	}
	s.state = next
	if eff == effectRetain {
		s.payload = p
	}
	return eff, nil
}

// replace applies onReplace and returns the payload it displaced. If the
// slot is already disposed p is rejected and the caller must release it.
func (s *slot[P]) replace(p P) (prev P, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.state.onReplace()
	if !ok {
		return prev, false
	}
	s.state = next
	prev, s.payload = s.payload, p
	return prev, true
}

// dispose applies onDispose and hands back the payload when the caller
// must release it. Only the first call ever does.
func (s *slot[P]) dispose() (P, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero P
	next, eff := s.state.onDispose()
	s.state = next
	if eff != effectDisposeHeld {
		return zero, false
	}
	p := s.payload
	s.payload = zero
	return p, true
}

func (s *slot[P]) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.isDisposed()
}

// pair is two children disposed in order.
type pair struct {
	first, second Disposable
}

func (p pair) dispose() {
	if p.first != nil {
		p.first.Dispose()
	}
	if p.second != nil {
		p.second.Dispose()
	}
}
