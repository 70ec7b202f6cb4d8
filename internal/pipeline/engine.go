// Package pipeline orchestrates candidate-to-job match scoring: the
// single-application pipeline, the partially-failable batch orchestrator, and
// progress reads over persisted scores.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/docstore"
	"github.com/jonathan/match-engine/internal/llm"
)

// defaultWorkers bounds concurrent external calls during a batch to respect
// third-party rate limits.
const defaultWorkers = 4

// Repository is the persistence surface the engine needs. *db.DB satisfies
// it; tests use an in-memory fake.
type Repository interface {
	GetScoringConfig(ctx context.Context, orgID uuid.UUID) (*db.ScoringConfig, error)
	GetApplication(ctx context.Context, applicationID uuid.UUID) (*db.Application, error)
	ListApplicationIDsForJob(ctx context.Context, jobID, orgID uuid.UUID) ([]uuid.UUID, error)
	ListUnscoredApplicationIDs(ctx context.Context, jobID, orgID uuid.UUID) ([]uuid.UUID, error)
	UpsertMatchScore(ctx context.Context, score *db.MatchScore) (*db.MatchScore, error)
	GetMatchScore(ctx context.Context, applicationID uuid.UUID) (*db.MatchScore, error)
	GetMatchScoresForJob(ctx context.Context, jobID, orgID uuid.UUID) ([]db.MatchScore, error)
}

// Engine runs the scoring pipeline against injected collaborators.
type Engine struct {
	repo    Repository
	client  llm.Client
	store   docstore.Store
	log     *zap.Logger
	workers int

	mu       sync.Mutex
	inflight map[uuid.UUID]*Batch
}

// Config holds engine tunables.
type Config struct {
	// Workers bounds concurrent application scoring within a batch.
	// Zero means the default.
	Workers int
}

// NewEngine creates a scoring engine.
func NewEngine(repo Repository, client llm.Client, store docstore.Store, log *zap.Logger, cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Engine{
		repo:     repo,
		client:   client,
		store:    store,
		log:      log,
		workers:  workers,
		inflight: make(map[uuid.UUID]*Batch),
	}
}
