package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const matchScoreColumns = `id, application_id, organization_id, candidate_id, job_id,
	overall_score, skill_score, experience_score, semantic_score,
	ai_summary, recommendation, strengths, concerns, breakdown, weights,
	model_used, scored_at`

// UpsertMatchScore atomically inserts or replaces the score for an
// application. application_id carries a unique constraint, so the row either
// exists fully or not at all; concurrent writers for the same application
// serialize on the constraint and the last writer wins.
func (db *DB) UpsertMatchScore(ctx context.Context, score *MatchScore) (*MatchScore, error) {
	strengthsJSON, err := json.Marshal(score.Strengths)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strengths: %w", err)
	}
	concernsJSON, err := json.Marshal(score.Concerns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal concerns: %w", err)
	}
	breakdownJSON, err := json.Marshal(score.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	weightsJSON, err := json.Marshal(score.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weights: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO match_scores (application_id, organization_id, candidate_id, job_id,
		         overall_score, skill_score, experience_score, semantic_score,
		         ai_summary, recommendation, strengths, concerns, breakdown, weights,
		         model_used, scored_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		 ON CONFLICT (application_id) DO UPDATE SET
		         overall_score = EXCLUDED.overall_score,
		         skill_score = EXCLUDED.skill_score,
		         experience_score = EXCLUDED.experience_score,
		         semantic_score = EXCLUDED.semantic_score,
		         ai_summary = EXCLUDED.ai_summary,
		         recommendation = EXCLUDED.recommendation,
		         strengths = EXCLUDED.strengths,
		         concerns = EXCLUDED.concerns,
		         breakdown = EXCLUDED.breakdown,
		         weights = EXCLUDED.weights,
		         model_used = EXCLUDED.model_used,
		         scored_at = NOW()
		 RETURNING `+matchScoreColumns,
		score.ApplicationID, score.OrganizationID, score.CandidateID, score.JobID,
		score.OverallScore, score.SkillScore, score.ExperienceScore, score.SemanticScore,
		score.AISummary, score.Recommendation, strengthsJSON, concernsJSON, breakdownJSON,
		weightsJSON, score.ModelUsed,
	)

	saved, err := scanMatchScore(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert match score: %w", err)
	}
	return saved, nil
}

// GetMatchScore retrieves the score for an application, or nil if unscored.
func (db *DB) GetMatchScore(ctx context.Context, applicationID uuid.UUID) (*MatchScore, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+matchScoreColumns+` FROM match_scores WHERE application_id = $1`,
		applicationID,
	)

	score, err := scanMatchScore(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match score: %w", err)
	}
	return score, nil
}

// GetMatchScoresForJob retrieves all persisted scores for a job, newest first.
func (db *DB) GetMatchScoresForJob(ctx context.Context, jobID, orgID uuid.UUID) ([]MatchScore, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+matchScoreColumns+`
		 FROM match_scores
		 WHERE job_id = $1 AND organization_id = $2
		 ORDER BY scored_at DESC`,
		jobID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match scores: %w", err)
	}
	defer rows.Close()

	var scores []MatchScore
	for rows.Next() {
		score, err := scanMatchScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match score: %w", err)
		}
		scores = append(scores, *score)
	}
	return scores, nil
}

// scanMatchScore reads one match score row, decoding the JSONB columns.
func scanMatchScore(row pgx.Row) (*MatchScore, error) {
	var s MatchScore
	var strengthsJSON, concernsJSON, breakdownJSON, weightsJSON []byte

	err := row.Scan(&s.ID, &s.ApplicationID, &s.OrganizationID, &s.CandidateID, &s.JobID,
		&s.OverallScore, &s.SkillScore, &s.ExperienceScore, &s.SemanticScore,
		&s.AISummary, &s.Recommendation, &strengthsJSON, &concernsJSON, &breakdownJSON,
		&weightsJSON, &s.ModelUsed, &s.ScoredAt)
	if err != nil {
		return nil, err
	}

	if strengthsJSON != nil {
		_ = json.Unmarshal(strengthsJSON, &s.Strengths)
	}
	if concernsJSON != nil {
		_ = json.Unmarshal(concernsJSON, &s.Concerns)
	}
	if breakdownJSON != nil {
		_ = json.Unmarshal(breakdownJSON, &s.Breakdown)
	}
	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &s.Weights)
	}

	return &s, nil
}
