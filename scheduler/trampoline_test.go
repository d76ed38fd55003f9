package scheduler

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/rxkit/disposable"
)

func TestSchedule_RunsImmediatelyWhenIdle(t *testing.T) {
	tr := NewTrampoline(1)
	ctx := context.Background()
	require.True(t, tr.IsScheduleRequired(ctx))

	ran := false
	var innerRequired bool
	tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
		ran = true
		innerRequired = tr.IsScheduleRequired(ctx)
		return nil
	})

	assert.True(t, ran)
	assert.False(t, innerRequired, "inside an action the trampoline is active")
}

func TestSchedule_NestedRunsAfterCurrentAction(t *testing.T) {
	tr := NewTrampoline(1)
	var order []string

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		order = append(order, "A")
		tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
			order = append(order, "C")
			return nil
		})
		order = append(order, "B")
		return nil
	})

	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestSchedule_FIFOAcrossLevels(t *testing.T) {
	tr := NewTrampoline(2)
	var order []int

	record := func(n int) Action {
		return func(ctx context.Context) disposable.Disposable {
			order = append(order, n)
			return nil
		}
	}

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
			order = append(order, 1)
			tr.Schedule(ctx, record(4))
			return nil
		})
		tr.Schedule(ctx, record(2))
		tr.Schedule(ctx, record(3))
		return nil
	})

	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestSchedule_ReturnsActionDisposable(t *testing.T) {
	tr := NewTrampoline(1)
	disposed := false
	d := tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		return disposable.New(func() { disposed = true })
	})

	d.Dispose()
	assert.True(t, disposed)
}

func TestSchedule_NilDisposableBecomesNop(t *testing.T) {
	tr := NewTrampoline(1)
	d := tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable { return nil })
	require.NotNil(t, d)
	d.Dispose()
}

func TestSchedule_CancelBeforeDrainSkipsItem(t *testing.T) {
	tr := NewTrampoline(1)
	ran := false

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		pending := tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
			ran = true
			return nil
		})
		pending.Dispose()
		return nil
	})

	assert.False(t, ran)
}

func TestSchedule_DisposingRanItemDisposesResult(t *testing.T) {
	tr := NewTrampoline(1)
	var pending disposable.Disposable
	resultDisposed := false

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		pending = tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
			return disposable.New(func() { resultDisposed = true })
		})
		return nil
	})

	require.False(t, resultDisposed)
	pending.Dispose()
	assert.True(t, resultDisposed)
}

func TestSchedule_DrainEndsIdle(t *testing.T) {
	tr := NewTrampoline(1)
	var inner context.Context

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		inner = ctx
		return nil
	})

	assert.True(t, tr.IsScheduleRequired(inner), "state is idle again after the drain")

	ran := false
	tr.Schedule(inner, func(ctx context.Context) disposable.Disposable {
		ran = true
		return nil
	})
	assert.True(t, ran, "an idle context starts a fresh drain")
}

func TestSchedule_DeepNestingKeepsStackFlat(t *testing.T) {
	tr := NewTrampoline(1)
	const depth = 100000
	count := 0
	var maxStack int

	var step Action
	step = func(ctx context.Context) disposable.Disposable {
		count++
		if count%1000 == 0 {
			pcs := make([]uintptr, 256)
			if n := runtime.Callers(0, pcs); n > maxStack {
				maxStack = n
			}
		}
		if count < depth {
			tr.Schedule(ctx, step)
		}
		return nil
	}
	tr.Schedule(context.Background(), step)

	assert.Equal(t, depth, count)
	assert.Less(t, maxStack, 64)
}

func TestSchedule_PanicResetsState(t *testing.T) {
	tr := NewTrampoline(1)
	var inner context.Context

	assert.Panics(t, func() {
		tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
			inner = ctx
			tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable { return nil })
			panic("boom")
		})
	})

	assert.True(t, tr.IsScheduleRequired(inner))
}

func TestSchedule_CrossGoroutineJoinsOrStartsDrain(t *testing.T) {
	tr := NewTrampoline(1)
	var mu sync.Mutex
	ran := 0
	const workers = 32

	release := make(chan struct{})
	var wg sync.WaitGroup

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-release
				tr.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
					mu.Lock()
					ran++
					mu.Unlock()
					return nil
				})
			}()
		}
		close(release)
		return nil
	})
	wg.Wait()

	// Every worker either joined the drain above or ran its own; none is lost.
	// Items that joined a drain still in progress on another goroutine finish
	// when that drain does, so wait for the count to settle.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ran == workers
	}, timeoutForTest, tickForTest)
}

func TestScheduleState(t *testing.T) {
	tr := NewTrampoline(1)
	var got string
	ScheduleState(context.Background(), tr, "payload", func(ctx context.Context, s string) disposable.Disposable {
		got = s
		return nil
	})
	assert.Equal(t, "payload", got)
}

func TestSetQueueCapacityClampsToOne(t *testing.T) {
	tr := NewTrampoline(0)
	assert.Equal(t, int64(1), tr.queueCapacity.Load())
	tr.SetQueueCapacity(64)
	assert.Equal(t, int64(64), tr.queueCapacity.Load())
}

func TestDetach_StartsOwnDrainInsideAction(t *testing.T) {
	tr := NewTrampoline(1)
	var order []string

	tr.Schedule(context.Background(), func(ctx context.Context) disposable.Disposable {
		order = append(order, "outer")
		detached := tr.Detach(ctx)
		require.True(t, tr.IsScheduleRequired(detached))

		tr.Schedule(detached, func(ctx context.Context) disposable.Disposable {
			order = append(order, "detached")
			tr.Schedule(ctx, func(context.Context) disposable.Disposable {
				order = append(order, "detached-nested")
				return nil
			})
			return nil
		})
		order = append(order, "outer-after")
		assert.False(t, tr.IsScheduleRequired(ctx), "outer drain is still active")
		return nil
	})

	assert.Equal(t, []string{"outer", "detached", "detached-nested", "outer-after"}, order)
}
