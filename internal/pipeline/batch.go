package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/match-engine/internal/db"
)

// Batch is the handle returned by ScoreBatch. Triggering is non-blocking:
// the batch runs in the background and the handle exposes its target set,
// settlement, and failure count.
type Batch struct {
	JobID          uuid.UUID
	OrganizationID uuid.UUID
	Rescore        bool
	TargetIDs      []uuid.UUID

	done   chan struct{}
	failed atomic.Int32
}

// Done is closed when every target application has been attempted,
// regardless of per-application failures.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Settled reports whether the batch has finished.
func (b *Batch) Settled() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Failed returns the number of applications whose scoring failed.
func (b *Batch) Failed() int {
	return int(b.failed.Load())
}

// TargetCount returns the size of the batch's target set.
func (b *Batch) TargetCount() int {
	return len(b.TargetIDs)
}

// ScoreBatch triggers background scoring of a job's applications and returns
// immediately. In automatic mode (rescore=false) the target set is every
// application without a persisted score and auto_score must be enabled; with
// rescore=true every application is re-scored. If a batch is already in
// flight for the job, that batch is returned instead of starting another.
func (e *Engine) ScoreBatch(ctx context.Context, jobID, orgID uuid.UUID, rescore bool) (*Batch, error) {
	cfg, err := e.repo.GetScoringConfig(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scoring config: %w", err)
	}
	if !cfg.Enabled {
		return nil, &ConfigurationError{Reason: "scoring is disabled for this organization"}
	}
	if !rescore && !cfg.AutoScore {
		return nil, &ConfigurationError{Reason: "automatic scoring is disabled for this organization"}
	}

	var targetIDs []uuid.UUID
	if rescore {
		targetIDs, err = e.repo.ListApplicationIDsForJob(ctx, jobID, orgID)
	} else {
		targetIDs, err = e.repo.ListUnscoredApplicationIDs(ctx, jobID, orgID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute batch target set: %w", err)
	}

	batch := &Batch{
		JobID:          jobID,
		OrganizationID: orgID,
		Rescore:        rescore,
		TargetIDs:      targetIDs,
		done:           make(chan struct{}),
	}

	// Nothing to do: settle immediately without registering in-flight state.
	if len(targetIDs) == 0 {
		close(batch.done)
		return batch, nil
	}

	e.mu.Lock()
	if existing, ok := e.inflight[jobID]; ok {
		e.mu.Unlock()
		return existing, nil
	}
	e.inflight[jobID] = batch
	e.mu.Unlock()

	e.log.Info("batch scoring started",
		zap.String("job_id", jobID.String()),
		zap.Int("target_count", len(targetIDs)),
		zap.Bool("rescore", rescore))

	// The batch must outlive the triggering request's context.
	go e.runBatch(context.WithoutCancel(ctx), batch, cfg)

	return batch, nil
}

// runBatch scores the target set with bounded concurrency. Per-application
// failures are counted and logged, never fatal to the batch.
func (e *Engine) runBatch(ctx context.Context, batch *Batch, cfg *db.ScoringConfig) {
	defer func() {
		e.mu.Lock()
		delete(e.inflight, batch.JobID)
		e.mu.Unlock()
		close(batch.done)
	}()

	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, applicationID := range batch.TargetIDs {
		g.Go(func() error {
			if _, err := e.scoreApplication(ctx, applicationID, batch.OrganizationID, cfg); err != nil {
				batch.failed.Add(1)
				e.log.Warn("application scoring failed, batch continues",
					zap.String("application_id", applicationID.String()),
					zap.String("job_id", batch.JobID.String()),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	e.log.Info("batch scoring settled",
		zap.String("job_id", batch.JobID.String()),
		zap.Int("target_count", batch.TargetCount()),
		zap.Int("failed", batch.Failed()))
}

// InFlight returns the running batch for a job, or nil.
func (e *Engine) InFlight(jobID uuid.UUID) *Batch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight[jobID]
}

// Progress reports how many of a job's applications currently have a
// persisted score. It reads only persisted state, so it is valid at any time,
// including while a batch is in flight.
func (e *Engine) Progress(ctx context.Context, jobID, orgID uuid.UUID) (scored, total int, err error) {
	ids, err := e.repo.ListApplicationIDsForJob(ctx, jobID, orgID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	scores, err := e.repo.GetMatchScoresForJob(ctx, jobID, orgID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list match scores: %w", err)
	}

	scoredSet := make(map[uuid.UUID]bool, len(scores))
	for _, s := range scores {
		scoredSet[s.ApplicationID] = true
	}
	for _, id := range ids {
		if scoredSet[id] {
			scored++
		}
	}
	return scored, len(ids), nil
}

// ScoredOfTarget counts how many of a batch's target applications have a
// persisted score. The poller uses this as its fetch function.
func (e *Engine) ScoredOfTarget(ctx context.Context, batch *Batch) (int, error) {
	scores, err := e.repo.GetMatchScoresForJob(ctx, batch.JobID, batch.OrganizationID)
	if err != nil {
		return 0, fmt.Errorf("failed to list match scores: %w", err)
	}

	scoredSet := make(map[uuid.UUID]bool, len(scores))
	for _, s := range scores {
		scoredSet[s.ApplicationID] = true
	}

	count := 0
	for _, id := range batch.TargetIDs {
		if scoredSet[id] {
			count++
		}
	}
	return count, nil
}
