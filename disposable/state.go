package disposable

import "github.com/kbukum/rxkit/errors"

// state tracks a set-once holder.
type state int

const (
	// stateInitial: no child, not disposed.
	stateInitial state = iota
	// stateChildSet: child assigned and alive.
	stateChildSet
	// stateDisposed: disposed before any child arrived.
	stateDisposed
	// stateChildSetDisposed: terminal.
	stateChildSetDisposed
)

// String returns the state name.
func (s state) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateChildSet:
		return "child-set"
	case stateDisposed:
		return "disposed"
	case stateChildSetDisposed:
		return "child-set-disposed"
	default:
		return "unknown"
	}
}

func (s state) isDisposed() bool {
	return s == stateDisposed || s == stateChildSetDisposed
}

// effect is the side effect a transition asks the caller to run once the
// lock is released.
type effect int

const (
	effectNone effect = iota
	// effectRetain keeps the supplied child.
	effectRetain
	// effectDisposeSupplied disposes the child handed to Set without retaining it.
	effectDisposeSupplied
	// effectDisposeHeld disposes the retained child.
	effectDisposeHeld
)

// onSet returns the state after an assignment. Assigning twice is illegal
// whatever the disposal state.
func (s state) onSet(owner string) (state, effect, error) {
	switch s {
	case stateInitial:
		return stateChildSet, effectRetain, nil
	case stateDisposed:
		return stateChildSetDisposed, effectDisposeSupplied, nil
	default:
		return s, effectNone, errors.ContractViolation(owner + " assigned more than once")
	}
}

// onReplace returns the state after a child is swapped in. Swapping is
// legal until the holder is disposed; ok is false after that.
func (s state) onReplace() (next state, ok bool) {
	switch s {
	case stateInitial, stateChildSet:
		return stateChildSet, true
	default:
		return s, false
	}
}

// onDispose returns the state after Dispose.
func (s state) onDispose() (state, effect) {
	switch s {
	case stateInitial:
		return stateDisposed, effectNone
	case stateChildSet:
		return stateChildSetDisposed, effectDisposeHeld
	default:
		return s, effectNone
	}
}
