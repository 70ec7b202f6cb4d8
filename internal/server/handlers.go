package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/scoring"
)

// pathUUID parses a path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// orgParam parses the required org query parameter.
func orgParam(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("org")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing required query parameter: org")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid org: %q", raw)
	}
	return id, nil
}

// handleScoreApplication scores one application synchronously and returns the
// persisted MatchScore.
func (s *Server) handleScoreApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	orgID, err := orgParam(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.allowTrigger(w, orgID) {
		return
	}

	score, err := s.engine.ScoreOne(r.Context(), applicationID, orgID)
	if err != nil {
		s.log.Warn("application scoring failed",
			zap.String("application_id", applicationID.String()),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, score)
}

// handleScoreBatch triggers background scoring of a job's applications and
// returns 202 with the target set.
func (s *Server) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	orgID, err := orgParam(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	rescore := false
	if raw := r.URL.Query().Get("rescore"); raw != "" {
		rescore, err = strconv.ParseBool(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid rescore: %q", raw))
			return
		}
	}
	if !s.allowTrigger(w, orgID) {
		return
	}

	batch, err := s.engine.ScoreBatch(r.Context(), jobID, orgID, rescore)
	if err != nil {
		s.log.Warn("batch scoring refused",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	targetIDs := batch.TargetIDs
	if targetIDs == nil {
		targetIDs = []uuid.UUID{}
	}
	s.jsonResponse(w, http.StatusAccepted, map[string]any{
		"job_id":       batch.JobID,
		"rescore":      batch.Rescore,
		"target_count": batch.TargetCount(),
		"target_ids":   targetIDs,
	})
}

// handleGetScore returns the persisted score for one application.
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	applicationID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := s.db.GetMatchScore(r.Context(), applicationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load match score")
		return
	}
	if score == nil {
		s.errorResponse(w, http.StatusNotFound, "no score for application")
		return
	}

	s.jsonResponse(w, http.StatusOK, score)
}

// handleListScores returns every persisted score for a job, newest first.
func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	orgID, err := orgParam(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	scores, err := s.db.GetMatchScoresForJob(r.Context(), jobID, orgID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load match scores")
		return
	}
	if scores == nil {
		scores = []db.MatchScore{}
	}

	s.jsonResponse(w, http.StatusOK, scores)
}

// handleScoreProgress reports batch progress over persisted scores.
func (s *Server) handleScoreProgress(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	orgID, err := orgParam(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	scored, total, err := s.engine.Progress(r.Context(), jobID, orgID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to read progress")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"scored":  scored,
		"total":   total,
		"settled": s.engine.InFlight(jobID) == nil,
	})
}

// handleGetScoringConfig returns an organization's scoring configuration,
// creating the default row on first read.
func (s *Server) handleGetScoringConfig(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := s.db.GetScoringConfig(r.Context(), orgID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load scoring config")
		return
	}

	s.jsonResponse(w, http.StatusOK, cfg)
}

// scoringConfigRequest is the PUT body for scoring configuration.
type scoringConfigRequest struct {
	Enabled   bool           `json:"enabled"`
	AutoScore bool           `json:"auto_score"`
	Weights   weightsRequest `json:"weights" validate:"required"`
}

type weightsRequest struct {
	Skill      float64 `json:"skill" validate:"gte=0"`
	Experience float64 `json:"experience" validate:"gte=0"`
	Semantic   float64 `json:"semantic" validate:"gte=0"`
}

// handleSetScoringConfig replaces an organization's scoring configuration.
func (s *Server) handleSetScoringConfig(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req scoringConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid scoring config: %v", err))
		return
	}

	weights := scoring.Weights{
		Skill:      req.Weights.Skill,
		Experience: req.Weights.Experience,
		Semantic:   req.Weights.Semantic,
	}
	if !weights.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "weights must be non-negative with a positive total")
		return
	}

	saved, err := s.db.SetScoringConfig(r.Context(), &db.ScoringConfig{
		OrganizationID: orgID,
		Enabled:        req.Enabled,
		AutoScore:      req.AutoScore,
		Weights:        weights,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save scoring config")
		return
	}

	s.jsonResponse(w, http.StatusOK, saved)
}

// allowTrigger applies the per-organization trigger rate limit, writing the
// 429 response itself when the trigger is refused.
func (s *Server) allowTrigger(w http.ResponseWriter, orgID uuid.UUID) bool {
	ok, retryAfter := s.limiter.Allow(orgID.String())
	if ok {
		return true
	}
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	s.errorResponse(w, http.StatusTooManyRequests, "scoring trigger rate limit exceeded")
	return false
}
