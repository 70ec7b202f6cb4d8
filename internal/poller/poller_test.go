package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTarget struct {
	done  chan struct{}
	count int
}

func newFakeTarget(count int) *fakeTarget {
	return &fakeTarget{done: make(chan struct{}), count: count}
}

func (t *fakeTarget) Done() <-chan struct{} { return t.done }
func (t *fakeTarget) TargetCount() int      { return t.count }

// countingFetch returns the values in sequence, repeating the last one.
func countingFetch(values ...int) FetchFunc {
	var mu sync.Mutex
	i := 0
	return func(context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v, nil
	}
}

func TestWatch_SettlesWhenAllScored(t *testing.T) {
	p := New(5*time.Millisecond, zap.NewNop())
	target := newFakeTarget(3)

	var progress [][2]int
	err := p.Watch(context.Background(), target, countingFetch(0, 1, 3), func(scored, total int) {
		progress = append(progress, [2]int{scored, total})
	})

	require.NoError(t, err)
	require.NotEmpty(t, progress)
	assert.Equal(t, [2]int{3, 3}, progress[len(progress)-1])
	assert.Equal(t, StateIdle, p.State())
}

func TestWatch_SettlesWhenTargetDoneDespiteFailures(t *testing.T) {
	p := New(5*time.Millisecond, zap.NewNop())
	target := newFakeTarget(4)

	// One application never gets a score; settlement comes from Done.
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(target.done)
	}()

	var last [2]int
	err := p.Watch(context.Background(), target, countingFetch(1, 3), func(scored, total int) {
		last = [2]int{scored, total}
	})

	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 4}, last)
}

func TestWatch_CancellationTearsDown(t *testing.T) {
	p := New(5*time.Millisecond, zap.NewNop())
	target := newFakeTarget(2)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	err := p.Watch(ctx, target, countingFetch(0), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateIdle, p.State())
}

func TestWatch_EmptyTargetReturnsImmediately(t *testing.T) {
	p := New(time.Hour, zap.NewNop())
	err := p.Watch(context.Background(), newFakeTarget(0), countingFetch(0), nil)
	assert.NoError(t, err)
}

func TestWatch_SecondConcurrentWatchIsBusy(t *testing.T) {
	p := New(5*time.Millisecond, zap.NewNop())
	target := newFakeTarget(1)

	started := make(chan struct{})
	release := make(chan struct{})
	blockedFetch := func(context.Context) (int, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return 1, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Watch(context.Background(), target, blockedFetch, nil)
	}()
	<-started

	err := p.Watch(context.Background(), newFakeTarget(1), countingFetch(1), nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, p.State())
}

func TestWatch_FetchErrorIsRetried(t *testing.T) {
	p := New(5*time.Millisecond, zap.NewNop())
	target := newFakeTarget(2)

	var mu sync.Mutex
	calls := 0
	fetch := func(context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return 0, errors.New("transient read failure")
		}
		return 2, nil
	}

	err := p.Watch(context.Background(), target, fetch, nil)
	require.NoError(t, err)
	mu.Lock()
	assert.GreaterOrEqual(t, calls, 2)
	mu.Unlock()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "requested", StateRequested.String())
	assert.Equal(t, "polling", StatePolling.String())
}
