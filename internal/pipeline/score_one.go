package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/extract"
	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/scoring"
	"github.com/jonathan/match-engine/internal/textbuild"
)

// ScoreOne scores a single application and persists the result. The returned
// MatchScore is the persisted row. Scoring refuses with a *ConfigurationError
// when the organization has scoring disabled.
func (e *Engine) ScoreOne(ctx context.Context, applicationID, orgID uuid.UUID) (*db.MatchScore, error) {
	cfg, err := e.repo.GetScoringConfig(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scoring config: %w", err)
	}
	if !cfg.Enabled {
		return nil, &ConfigurationError{Reason: "scoring is disabled for this organization"}
	}

	return e.scoreApplication(ctx, applicationID, orgID, cfg)
}

// scoreApplication runs the full pipeline for one application with an
// already-resolved config. The two external calls (analysis, embeddings) run
// concurrently; if either fails nothing is persisted, so a MatchScore row is
// never half-written.
func (e *Engine) scoreApplication(ctx context.Context, applicationID, orgID uuid.UUID, cfg *db.ScoringConfig) (*db.MatchScore, error) {
	app, err := e.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil || app.OrganizationID != orgID {
		return nil, &NotFoundError{Kind: "application", ID: applicationID}
	}

	// Resume text degrades to "" on any failure; scoring continues.
	resumeText := extract.ResumeText(ctx, e.store, app.Candidate.ResumeURL, e.log)
	candidateText := textbuild.CandidateText(&app.Candidate, resumeText)
	jobText := textbuild.JobText(&app.Job)

	var analysis *llm.MatchAnalysis
	var semanticScore int

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := llm.Analyze(gCtx, e.client, candidateText, jobText)
		if err != nil {
			return err
		}
		analysis = result
		return nil
	})
	g.Go(func() error {
		vectors, err := e.client.EmbedTexts(gCtx, []string{candidateText, jobText})
		if err != nil {
			return err
		}
		similarity := scoring.CosineSimilarity(vectors[0], vectors[1])
		semanticScore = scoring.SemanticScore(similarity)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := scoring.Aggregate(analysis.SkillScore, analysis.ExperienceScore, semanticScore, cfg.Weights)

	score := &db.MatchScore{
		ApplicationID:   app.ID,
		OrganizationID:  app.OrganizationID,
		CandidateID:     app.CandidateID,
		JobID:           app.JobID,
		OverallScore:    overall,
		SkillScore:      analysis.SkillScore,
		ExperienceScore: analysis.ExperienceScore,
		SemanticScore:   semanticScore,
		AISummary:       analysis.Summary,
		Recommendation:  analysis.Recommendation,
		Strengths:       analysis.Strengths,
		Concerns:        analysis.Concerns,
		Breakdown: db.Breakdown{
			SkillsFound:       analysis.SkillsFound,
			SkillsMissing:     analysis.SkillsMissing,
			ExperienceDetails: analysis.ExperienceDetails,
		},
		Weights:   cfg.Weights,
		ModelUsed: e.client.ModelName(),
		ScoredAt:  time.Now().UTC(),
	}

	saved, err := e.repo.UpsertMatchScore(ctx, score)
	if err != nil {
		return nil, fmt.Errorf("failed to persist match score: %w", err)
	}

	e.log.Debug("application scored",
		zap.String("application_id", app.ID.String()),
		zap.Int("overall_score", saved.OverallScore),
		zap.String("recommendation", string(saved.Recommendation)))

	return saved, nil
}
