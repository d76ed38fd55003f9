package disposable

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/rxkit/errors"
)

// counter counts how many times it was disposed.
type counter struct{ n atomic.Int32 }

func (c *counter) Dispose() { c.n.Add(1) }

func (c *counter) count() int { return int(c.n.Load()) }

func recoverAppError(t *testing.T, fn func()) (err *errors.AppError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		var ok bool
		err, ok = r.(*errors.AppError)
		require.True(t, ok, "expected *errors.AppError, got %T", r)
	}()
	fn()
	return nil
}

func TestNop(t *testing.T) {
	Nop.Dispose()
	Nop.Dispose()
}

func TestAction_RunsOnce(t *testing.T) {
	var calls int
	a := New(func() { calls++ })
	assert.False(t, a.IsDisposed())

	a.Dispose()
	a.Dispose()

	assert.Equal(t, 1, calls)
	assert.True(t, a.IsDisposed())
}

func TestAction_NilAction(t *testing.T) {
	a := New(nil)
	a.Dispose()
	assert.True(t, a.IsDisposed())
}

func TestAction_Concurrent(t *testing.T) {
	var calls atomic.Int32
	a := New(func() { calls.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Dispose()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestBinary_DisposesBothOnce(t *testing.T) {
	first, second := &counter{}, &counter{}
	b := NewBinary(first, second)

	b.Dispose()
	b.Dispose()

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
	assert.True(t, b.IsDisposed())
}

func TestBinary_NilChildren(t *testing.T) {
	b := NewBinary(nil, &counter{})
	b.Dispose()
	assert.True(t, b.IsDisposed())
}

func TestSingleAssignment_SetThenDispose(t *testing.T) {
	child := &counter{}
	s := NewSingleAssignment()
	s.Set(child)
	assert.Equal(t, 0, child.count())
	assert.False(t, s.IsDisposed())

	s.Dispose()
	s.Dispose()

	assert.Equal(t, 1, child.count())
	assert.True(t, s.IsDisposed())
}

func TestSingleAssignment_DisposeBeforeSet(t *testing.T) {
	child := &counter{}
	s := NewSingleAssignment()
	s.Dispose()
	assert.True(t, s.IsDisposed())

	s.Set(child)
	assert.Equal(t, 1, child.count(), "child handed to a disposed holder is disposed at once")

	s.Dispose()
	assert.Equal(t, 1, child.count())
}

func TestSingleAssignment_SetTwicePanics(t *testing.T) {
	s := NewSingleAssignment()
	s.Set(&counter{})

	err := recoverAppError(t, func() { s.Set(&counter{}) })
	assert.Equal(t, errors.ErrCodeContractViolation, err.Code)
	assert.True(t, stderrors.Is(err, errors.ErrContractViolation))
}

func TestSingleAssignment_SetTwiceAfterDisposePanics(t *testing.T) {
	s := NewSingleAssignment()
	s.Dispose()
	s.Set(&counter{})

	err := recoverAppError(t, func() { s.Set(&counter{}) })
	assert.True(t, stderrors.Is(err, errors.ErrContractViolation))
}

func TestSingleAssignment_TrySet(t *testing.T) {
	first, second := &counter{}, &counter{}
	s := NewSingleAssignment()
	require.NoError(t, s.TrySet(first))

	err := s.TrySet(second)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrContractViolation))
	assert.Equal(t, 0, second.count(), "rejected child is left untouched")

	s.Dispose()
	assert.Equal(t, 1, first.count())
}

// reentrant disposes its owner from inside its own Dispose.
type reentrant struct {
	owner Disposable
	calls int
}

func (r *reentrant) Dispose() {
	r.calls++
	r.owner.Dispose()
}

func TestSingleAssignment_ReentrantDispose(t *testing.T) {
	s := NewSingleAssignment()
	child := &reentrant{owner: s}
	s.Set(child)

	s.Dispose()
	assert.Equal(t, 1, child.calls)
}

func TestSingleAssignment_ConcurrentSetAndDispose(t *testing.T) {
	for i := 0; i < 200; i++ {
		child := &counter{}
		s := NewSingleAssignment()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(child)
		}()
		go func() {
			defer wg.Done()
			s.Dispose()
		}()
		wg.Wait()

		require.Equal(t, 1, child.count(), "iteration %d", i)
	}
}

func TestSinkDisposer_SetThenDispose(t *testing.T) {
	sink, sub := &counter{}, &counter{}
	d := NewSinkDisposer()
	d.SetSinkAndSubscription(sink, sub)
	assert.False(t, d.IsDisposed())

	d.Dispose()
	d.Dispose()

	assert.Equal(t, 1, sink.count())
	assert.Equal(t, 1, sub.count())
	assert.True(t, d.IsDisposed())
}

func TestSinkDisposer_DisposeBeforeSet(t *testing.T) {
	sink, sub := &counter{}, &counter{}
	d := NewSinkDisposer()
	d.Dispose()

	d.SetSinkAndSubscription(sink, sub)
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, 1, sub.count())
}

func TestSinkDisposer_SetTwicePanics(t *testing.T) {
	d := NewSinkDisposer()
	d.SetSinkAndSubscription(&counter{}, &counter{})

	err := recoverAppError(t, func() { d.SetSinkAndSubscription(&counter{}, &counter{}) })
	assert.Equal(t, errors.ErrCodeContractViolation, err.Code)
}

func TestSerial_ReplaceDisposesPrevious(t *testing.T) {
	first, second := &counter{}, &counter{}
	s := NewSerial()

	s.Replace(first)
	s.Replace(second)
	assert.Equal(t, 1, first.count())
	assert.Equal(t, 0, second.count())

	s.Dispose()
	assert.Equal(t, 1, second.count())
	assert.True(t, s.IsDisposed())
}

func TestSerial_ReplaceAfterDispose(t *testing.T) {
	late := &counter{}
	s := NewSerial()
	s.Dispose()

	s.Replace(late)
	assert.Equal(t, 1, late.count())

	s.Dispose()
	assert.Equal(t, 1, late.count())
}

func TestSerial_ConcurrentReplaceAndDispose(t *testing.T) {
	s := NewSerial()
	children := make([]*counter, 64)
	var wg sync.WaitGroup
	for i := range children {
		children[i] = &counter{}
		wg.Add(1)
		go func(c *counter) {
			defer wg.Done()
			s.Replace(c)
		}(children[i])
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Dispose()
	}()
	wg.Wait()
	s.Dispose()

	for i, c := range children {
		assert.Equal(t, 1, c.count(), "child %d", i)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from      state
		set       state
		setErr    bool
		replaceOK bool
		dispose   state
	}{
		{stateInitial, stateChildSet, false, true, stateDisposed},
		{stateChildSet, stateChildSet, true, true, stateChildSetDisposed},
		{stateDisposed, stateChildSetDisposed, false, false, stateDisposed},
		{stateChildSetDisposed, stateChildSetDisposed, true, false, stateChildSetDisposed},
	}

	for _, tc := range tests {
		t.Run(tc.from.String(), func(t *testing.T) {
			next, _, err := tc.from.onSet("holder")
			assert.Equal(t, tc.set, next)
			assert.Equal(t, tc.setErr, err != nil)

			_, ok := tc.from.onReplace()
			assert.Equal(t, tc.replaceOK, ok)

			next, _ = tc.from.onDispose()
			assert.Equal(t, tc.dispose, next)
		})
	}
}
