package disposable

import (
	"github.com/kbukum/rxkit/logger"
)

// SingleAssignment holds a child Disposable that is assigned exactly once.
type SingleAssignment struct {
	slot slot[Disposable]
}

// NewSingleAssignment returns an empty holder.
func NewSingleAssignment() *SingleAssignment {
	return &SingleAssignment{}
}

// Set assigns the child. If the holder is already disposed the child is
// disposed immediately and not retained. A second Set panics with a
// CONTRACT_VIOLATION error.
func (s *SingleAssignment) Set(d Disposable) {
	if err := s.TrySet(d); err != nil {
		logger.Get("disposable").WithError(err).Error("set-once disposable assigned twice")
		panic(err)
	}
}

// TrySet is Set that returns the contract violation instead of panicking.
func (s *SingleAssignment) TrySet(d Disposable) error {
	eff, err := s.slot.set(d, "single assignment disposable")
	if err != nil {
		return err
	}
	if eff == effectDisposeSupplied && d != nil {
		d.Dispose()
	}
	return nil
}

// Dispose disposes the child if one is set; otherwise the next Set will.
func (s *SingleAssignment) Dispose() {
	if child, ok := s.slot.dispose(); ok && child != nil {
		child.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *SingleAssignment) IsDisposed() bool {
	return s.slot.isDisposed()
}
