package scheduler

import (
	"slices"
	"sync"
	"time"

	"github.com/kbukum/rxkit/disposable"
)

// VirtualTimer is a Timer driven by Advance instead of the wall clock.
// Callbacks run on the goroutine calling Advance, in due-time order, with
// ties broken by scheduling order.
type VirtualTimer struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*virtualEntry
}

type virtualEntry struct {
	due       time.Duration
	seq       uint64
	callback  func()
	cancelled bool
}

// NewVirtualTimer creates a virtual timer at time zero.
func NewVirtualTimer() *VirtualTimer {
	return &VirtualTimer{}
}

// ScheduleAfter registers callback to run once virtual time reaches
// Now()+d. A negative d is treated as zero.
func (v *VirtualTimer) ScheduleAfter(d time.Duration, callback func()) disposable.Disposable {
	if d < 0 {
		d = 0
	}

	v.mu.Lock()
	v.seq++
	entry := &virtualEntry{due: v.now + d, seq: v.seq, callback: callback}
	idx, _ := slices.BinarySearchFunc(v.pending, entry, compareEntries)
	v.pending = slices.Insert(v.pending, idx, entry)
	v.mu.Unlock()

	return disposable.New(func() { v.cancel(entry) })
}

// Advance moves virtual time forward by d, firing every callback that
// falls due on the way. Now reports each callback's due time while it
// runs. Callbacks may schedule further callbacks; those fire too if they
// fall due before the target time.
func (v *VirtualTimer) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	for len(v.pending) > 0 && v.pending[0].due <= target {
		entry := v.pending[0]
		v.pending = v.pending[1:]
		v.now = entry.due
		v.mu.Unlock()

		entry.callback()

		v.mu.Lock()
	}
	v.now = target
	v.mu.Unlock()
}

// Now returns the elapsed virtual time.
func (v *VirtualTimer) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of callbacks waiting to fire.
func (v *VirtualTimer) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

func (v *VirtualTimer) cancel(entry *virtualEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if entry.cancelled {
		return
	}
	entry.cancelled = true
	if idx := slices.Index(v.pending, entry); idx >= 0 {
		v.pending = slices.Delete(v.pending, idx, idx+1)
	}
}

func compareEntries(a, b *virtualEntry) int {
	if a.due != b.due {
		if a.due < b.due {
			return -1
		}
		return 1
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}
