package scheduler

import (
	"time"

	"github.com/kbukum/rxkit/disposable"
)

// Timer runs a callback once after a delay. The returned Disposable
// cancels the callback if it has not fired yet.
type Timer interface {
	ScheduleAfter(d time.Duration, callback func()) disposable.Disposable
}

// TimerFunc adapts a function to the Timer interface.
type TimerFunc func(d time.Duration, callback func()) disposable.Disposable

// ScheduleAfter calls f(d, callback).
func (f TimerFunc) ScheduleAfter(d time.Duration, callback func()) disposable.Disposable {
	return f(d, callback)
}

// AfterFunc is a Timer backed by time.AfterFunc. Callbacks run on their
// own goroutine.
var AfterFunc Timer = TimerFunc(func(d time.Duration, callback func()) disposable.Disposable {
	t := time.AfterFunc(d, callback)
	return disposable.New(func() { t.Stop() })
})
