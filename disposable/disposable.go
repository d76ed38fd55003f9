package disposable

// Disposable releases a resource or cancels a subscription.
type Disposable interface {
	Dispose()
}

// Cancelable is a Disposable that reports whether it has been disposed.
type Cancelable interface {
	Disposable
	IsDisposed() bool
}

type nop struct{}

func (nop) Dispose() {}

// Nop is a Disposable that does nothing.
var Nop Disposable = nop{}

// Action runs a function on the first Dispose.
type Action struct {
	slot slot[func()]
}

// New returns a Cancelable that runs action the first time it is disposed.
// A nil action is allowed.
func New(action func()) *Action {
	a := &Action{}
	a.slot.set(action, "action disposable")
	return a
}

// Dispose runs the action once. The action runs outside the lock.
func (a *Action) Dispose() {
	if action, ok := a.slot.dispose(); ok && action != nil {
		action()
	}
}

// IsDisposed reports whether Dispose has been called.
func (a *Action) IsDisposed() bool {
	return a.slot.isDisposed()
}

// Binary disposes two children together.
type Binary struct {
	slot slot[pair]
}

// NewBinary returns a Cancelable that disposes first and then second, once.
func NewBinary(first, second Disposable) *Binary {
	b := &Binary{}
	b.slot.set(pair{first, second}, "binary disposable")
	return b
}

// Dispose disposes both children once and drops the references.
func (b *Binary) Dispose() {
	if children, ok := b.slot.dispose(); ok {
		children.dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (b *Binary) IsDisposed() bool {
	return b.slot.isDisposed()
}
