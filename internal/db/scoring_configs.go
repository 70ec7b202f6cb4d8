package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetScoringConfig retrieves the scoring configuration for an organization,
// lazily creating a row with the documented defaults when none exists.
func (db *DB) GetScoringConfig(ctx context.Context, orgID uuid.UUID) (*ScoringConfig, error) {
	cfg, err := db.getScoringConfig(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	// No row yet: insert defaults. DO NOTHING tolerates a concurrent insert;
	// the follow-up read returns whichever row won.
	defaults := DefaultScoringConfig(orgID)
	weightsJSON, err := json.Marshal(defaults.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default weights: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO scoring_configs (organization_id, enabled, auto_score, weights)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (organization_id) DO NOTHING`,
		orgID, defaults.Enabled, defaults.AutoScore, weightsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create default scoring config: %w", err)
	}

	cfg, err = db.getScoringConfig(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("scoring config missing after default insert for org %s", orgID)
	}
	return cfg, nil
}

// SetScoringConfig stores the scoring configuration for an organization.
func (db *DB) SetScoringConfig(ctx context.Context, cfg *ScoringConfig) (*ScoringConfig, error) {
	weightsJSON, err := json.Marshal(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weights: %w", err)
	}

	var saved ScoringConfig
	var savedWeights []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO scoring_configs (organization_id, enabled, auto_score, weights, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (organization_id) DO UPDATE SET
		         enabled = EXCLUDED.enabled,
		         auto_score = EXCLUDED.auto_score,
		         weights = EXCLUDED.weights,
		         updated_at = NOW()
		 RETURNING organization_id, enabled, auto_score, weights, updated_at`,
		cfg.OrganizationID, cfg.Enabled, cfg.AutoScore, weightsJSON,
	).Scan(&saved.OrganizationID, &saved.Enabled, &saved.AutoScore, &savedWeights, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to set scoring config: %w", err)
	}

	if savedWeights != nil {
		_ = json.Unmarshal(savedWeights, &saved.Weights)
	}
	return &saved, nil
}

func (db *DB) getScoringConfig(ctx context.Context, orgID uuid.UUID) (*ScoringConfig, error) {
	var cfg ScoringConfig
	var weightsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT organization_id, enabled, auto_score, weights, updated_at
		 FROM scoring_configs WHERE organization_id = $1`,
		orgID,
	).Scan(&cfg.OrganizationID, &cfg.Enabled, &cfg.AutoScore, &weightsJSON, &cfg.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scoring config: %w", err)
	}

	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &cfg.Weights)
	}
	return &cfg, nil
}
