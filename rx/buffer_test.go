package rx

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/scheduler"
)

func TestBuffer_CountTrigger(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	rec := &recorder[[]int]{}

	sub := Buffer(FromSlice([]int{1, 2, 3, 4, 5, 6, 7}), time.Hour, 3, WithTimer(vt)).
		Subscribe(context.Background(), rec)
	defer sub.Dispose()

	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, rec.Values())
	assert.Equal(t, []EventKind{KindNext, KindNext, KindComplete}, rec.Kinds())
	assert.Equal(t, time.Duration(0), vt.Now(), "count windows close before any timer fires")
	assert.Zero(t, vt.Pending())
}

func TestBuffer_FlushOnTerminate(t *testing.T) {
	got, err := Collect(context.Background(),
		Buffer(FromSlice([]int{1, 2, 3, 4, 5, 6, 7}), 0, 3, WithFlushOnTerminate()))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, got)
}

func TestBuffer_FlushOnTerminate_NothingPending(t *testing.T) {
	got, err := Collect(context.Background(),
		Buffer(FromSlice([]int{1, 2}), 0, 2, WithFlushOnTerminate()))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}}, got)
}

func TestBuffer_BothTriggersDisabled(t *testing.T) {
	got, err := Collect(context.Background(), Buffer(FromSlice([]int{1, 2}), 0, 0))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1}, {2}}, got)
}

func TestBuffer_TimeTrigger(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	src := &manualSource[int]{}
	rec := &recorder[[]int]{}

	sub := Buffer(src.Observable(), time.Second, 0, WithTimer(vt)).
		Subscribe(context.Background(), rec)
	defer sub.Dispose()

	src.Push(Next(1))
	vt.Advance(999 * time.Millisecond)
	assert.Empty(t, rec.Events(), "window must stay open until the timespan elapses")

	vt.Advance(time.Millisecond)
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, []int{1}, rec.Events()[0].Value)

	// A window with no values still closes on time.
	vt.Advance(time.Second)
	require.Len(t, rec.Events(), 2)
	assert.NotNil(t, rec.Events()[1].Value)
	assert.Empty(t, rec.Events()[1].Value)

	src.Push(Next(2))
	src.Push(Next(3))
	vt.Advance(time.Second)
	require.Len(t, rec.Events(), 3)
	assert.Equal(t, []int{2, 3}, rec.Events()[2].Value)
	assert.Equal(t, 1, vt.Pending())
}

func TestBuffer_CountClosesWindowAndRestartsTimer(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	src := &manualSource[int]{}
	rec := &recorder[[]int]{}

	sub := Buffer(src.Observable(), time.Second, 2, WithTimer(vt)).
		Subscribe(context.Background(), rec)
	defer sub.Dispose()

	vt.Advance(500 * time.Millisecond)
	src.Push(Next(1))
	src.Push(Next(2))
	require.Equal(t, [][]int{{1, 2}}, rec.Values())
	// The first window's timer was cancelled and replaced.
	assert.Equal(t, 1, vt.Pending())

	src.Push(Next(3))
	vt.Advance(500 * time.Millisecond)
	assert.Len(t, rec.Values(), 1, "the new window opened at 500ms")

	vt.Advance(500 * time.Millisecond)
	assert.Equal(t, [][]int{{1, 2}, {3}}, rec.Values())
}

func TestBuffer_StaleTimerIgnored(t *testing.T) {
	var (
		mu        sync.Mutex
		callbacks []func()
	)
	timer := scheduler.TimerFunc(func(_ time.Duration, cb func()) disposable.Disposable {
		mu.Lock()
		defer mu.Unlock()
		callbacks = append(callbacks, cb)
		// Never cancels, so a closed window's callback can still fire.
		return disposable.Nop
	})

	src := &manualSource[int]{}
	rec := &recorder[[]int]{}
	sub := Buffer(src.Observable(), time.Second, 2, WithTimer(timer)).
		Subscribe(context.Background(), rec)
	defer sub.Dispose()

	src.Push(Next(1))
	src.Push(Next(2))
	src.Push(Next(3))
	require.Len(t, callbacks, 2)

	callbacks[0]()
	assert.Equal(t, [][]int{{1, 2}}, rec.Values(), "timer of a closed window must not flush")

	callbacks[1]()
	assert.Equal(t, [][]int{{1, 2}, {3}}, rec.Values())
}

func TestBuffer_CompleteDropsPartialWindow(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	src := &manualSource[int]{}
	rec := &recorder[[]int]{}

	Buffer(src.Observable(), time.Second, 5, WithTimer(vt)).Subscribe(context.Background(), rec)

	src.Push(Next(1))
	src.Push(Complete[int]())

	assert.Equal(t, []EventKind{KindComplete}, rec.Kinds())
	assert.Zero(t, vt.Pending(), "terminal events cancel the window timer")
	assert.True(t, src.disposed.Load())
}

func TestBuffer_ErrorNotFlushed(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	src := &manualSource[int]{}
	rec := &recorder[[]int]{}
	cause := fmt.Errorf("sensor offline")

	Buffer(src.Observable(), time.Second, 5, WithTimer(vt), WithFlushOnTerminate()).
		Subscribe(context.Background(), rec)

	src.Push(Next(1))
	src.Push(Error[int](cause))
	src.Push(Next(2))
	vt.Advance(time.Minute)

	require.Equal(t, []EventKind{KindError}, rec.Kinds())
	assert.Same(t, cause, rec.Events()[0].Err)
}

func TestBuffer_Dispose(t *testing.T) {
	vt := scheduler.NewVirtualTimer()
	src := &manualSource[int]{}
	rec := &recorder[[]int]{}

	sub := Buffer(src.Observable(), time.Second, 5, WithTimer(vt)).
		Subscribe(context.Background(), rec)
	src.Push(Next(1))
	require.Equal(t, 1, vt.Pending())

	sub.Dispose()

	assert.Zero(t, vt.Pending())
	assert.True(t, src.disposed.Load())

	src.Push(Next(2))
	vt.Advance(time.Minute)
	assert.Empty(t, rec.Events())
}

func TestBuffer_WallClockTimer(t *testing.T) {
	src := Create(func(_ context.Context, o Observer[int]) disposable.Disposable {
		go func() {
			o.On(Next(1))
			o.On(Next(2))
			time.Sleep(30 * time.Millisecond)
			o.On(Next(3))
			time.Sleep(30 * time.Millisecond)
			o.On(Complete[int]())
		}()
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	windows, err := Collect(ctx, Buffer(src, 10*time.Millisecond, 0, WithFlushOnTerminate()))
	require.NoError(t, err)

	var values []int
	for _, w := range windows {
		values = append(values, w...)
	}
	assert.Equal(t, []int{1, 2, 3}, values, "every value lands in exactly one window, in order")
	assert.Greater(t, len(windows), 1)
}
