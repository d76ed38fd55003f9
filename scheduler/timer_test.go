package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/rxkit/disposable"
)

const (
	timeoutForTest = 2 * time.Second
	tickForTest    = 5 * time.Millisecond
)

func TestAfterFunc_Fires(t *testing.T) {
	var fired atomic.Bool
	AfterFunc.ScheduleAfter(time.Millisecond, func() { fired.Store(true) })
	require.Eventually(t, fired.Load, timeoutForTest, tickForTest)
}

func TestAfterFunc_Cancel(t *testing.T) {
	var fired atomic.Bool
	d := AfterFunc.ScheduleAfter(50*time.Millisecond, func() { fired.Store(true) })
	d.Dispose()
	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestTimerFunc(t *testing.T) {
	var gotDelay time.Duration
	timer := TimerFunc(func(d time.Duration, callback func()) disposable.Disposable {
		gotDelay = d
		callback()
		return disposable.Nop
	})

	called := false
	timer.ScheduleAfter(3*time.Second, func() { called = true })
	assert.Equal(t, 3*time.Second, gotDelay)
	assert.True(t, called)
}

func TestVirtualTimer_FiresInDueOrder(t *testing.T) {
	v := NewVirtualTimer()
	var order []string
	var at []time.Duration

	record := func(name string) func() {
		return func() {
			order = append(order, name)
			at = append(at, v.Now())
		}
	}
	v.ScheduleAfter(3*time.Second, record("c"))
	v.ScheduleAfter(time.Second, record("a"))
	v.ScheduleAfter(time.Second, record("b"))
	require.Equal(t, 3, v.Pending())

	v.Advance(999 * time.Millisecond)
	assert.Empty(t, order, "nothing fires before its due time")

	v.Advance(time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)

	v.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, []time.Duration{time.Second, time.Second, 3 * time.Second}, at)
	assert.Equal(t, 6*time.Second, v.Now())
	assert.Zero(t, v.Pending())
}

func TestVirtualTimer_Cancel(t *testing.T) {
	v := NewVirtualTimer()
	fired := false
	d := v.ScheduleAfter(time.Second, func() { fired = true })

	d.Dispose()
	d.Dispose()
	assert.Zero(t, v.Pending())

	v.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestVirtualTimer_RescheduleFromCallback(t *testing.T) {
	v := NewVirtualTimer()
	var ticks []time.Duration

	var tick func()
	tick = func() {
		ticks = append(ticks, v.Now())
		v.ScheduleAfter(time.Second, tick)
	}
	v.ScheduleAfter(time.Second, tick)

	v.Advance(3 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, ticks)
	assert.Equal(t, 1, v.Pending())
}

func TestVirtualTimer_NegativeDelay(t *testing.T) {
	v := NewVirtualTimer()
	fired := false
	v.ScheduleAfter(-time.Second, func() { fired = true })
	v.Advance(0)
	assert.True(t, fired)
}
