package disposable

import (
	"github.com/kbukum/rxkit/logger"
)

// SinkDisposer pairs an operator sink with the subscription feeding it.
// It is handed out before either exists and assigned once both are built.
type SinkDisposer struct {
	slot slot[pair]
}

// NewSinkDisposer returns an empty SinkDisposer.
func NewSinkDisposer() *SinkDisposer {
	return &SinkDisposer{}
}

// SetSinkAndSubscription assigns the pair. If the disposer was disposed
// first, both are disposed immediately, sink first. A second call panics
// with a CONTRACT_VIOLATION error.
func (s *SinkDisposer) SetSinkAndSubscription(sink, subscription Disposable) {
	p := pair{sink, subscription}
	eff, err := s.slot.set(p, "sink disposer")
	if err != nil {
		logger.Get("disposable").WithError(err).Error("sink and subscription assigned twice")
		panic(err)
	}
	if eff == effectDisposeSupplied {
		p.dispose()
	}
}

// Dispose disposes the sink and then the subscription, once.
func (s *SinkDisposer) Dispose() {
	if p, ok := s.slot.dispose(); ok {
		p.dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *SinkDisposer) IsDisposed() bool {
	return s.slot.isDisposed()
}
