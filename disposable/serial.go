package disposable

// Serial holds a replaceable child. Replacing the child disposes the
// previous one; once the Serial is disposed every later child is disposed
// on arrival.
type Serial struct {
	slot slot[Disposable]
}

// NewSerial returns an empty Serial.
func NewSerial() *Serial {
	return &Serial{}
}

// Replace installs d and disposes the previous child.
func (s *Serial) Replace(d Disposable) {
	prev, ok := s.slot.replace(d)
	if !ok {
		prev = d
	}
	if prev != nil {
		prev.Dispose()
	}
}

// Dispose disposes the current child and marks the Serial disposed.
func (s *Serial) Dispose() {
	if current, ok := s.slot.dispose(); ok && current != nil {
		current.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *Serial) IsDisposed() bool {
	return s.slot.isDisposed()
}
