// Package poller implements the watch loop behind batch scoring: a
// cancellable fixed-interval poll over persisted scores that reports progress
// until the batch settles.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 3 * time.Second

// State tracks the watch lifecycle.
type State int

const (
	// StateIdle means no watch is running.
	StateIdle State = iota
	// StateRequested means a watch has started and the first read is pending.
	StateRequested
	// StatePolling means the watch is in its timed loop.
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequested:
		return "requested"
	case StatePolling:
		return "polling"
	default:
		return "unknown"
	}
}

// Target is the batch being watched.
type Target interface {
	// Done is closed when the batch has attempted every application.
	Done() <-chan struct{}
	// TargetCount is the number of applications in the batch.
	TargetCount() int
}

// FetchFunc counts how many of the target's applications currently have a
// persisted score.
type FetchFunc func(ctx context.Context) (int, error)

// ErrBusy is returned when Watch is called while a watch is already running.
var ErrBusy = errors.New("poller is already watching a batch")

// Poller runs at most one watch at a time.
type Poller struct {
	interval time.Duration
	log      *zap.Logger

	mu    sync.Mutex
	state State
}

// New creates a poller. A non-positive interval selects DefaultInterval.
func New(interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{interval: interval, log: log}
}

// State returns the current watch state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Watch blocks until every target application has a persisted score, the
// target settles, or ctx is cancelled. onProgress, if non-nil, is called
// after each successful read. Cancellation returns the context's error;
// settlement returns nil even when some applications failed.
func (p *Poller) Watch(ctx context.Context, target Target, fetch FetchFunc, onProgress func(scored, total int)) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrBusy
	}
	p.state = StateRequested
	p.mu.Unlock()
	defer p.setState(StateIdle)

	total := target.TargetCount()
	if total == 0 {
		return nil
	}

	// First read happens immediately; the ticker paces the rest.
	if done, err := p.step(ctx, fetch, total, onProgress); done || err != nil {
		return err
	}

	p.setState(StatePolling)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-target.Done():
			// The batch settled; one final read reports the closing counts.
			_, err := p.step(ctx, fetch, total, onProgress)
			return err
		case <-ticker.C:
			if done, err := p.step(ctx, fetch, total, onProgress); done || err != nil {
				return err
			}
		}
	}
}

// step performs one read and reports whether every target application is
// scored. Read failures are logged and polling continues, so a watch never
// dies on a transient read error.
func (p *Poller) step(ctx context.Context, fetch FetchFunc, total int, onProgress func(scored, total int)) (bool, error) {
	scored, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		p.log.Warn("progress read failed, will retry", zap.Error(err))
		return false, nil
	}
	if onProgress != nil {
		onProgress(scored, total)
	}
	return scored >= total, nil
}
