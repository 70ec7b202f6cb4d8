package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/match-engine/internal/scoring"
)

// MatchScore is the persisted result of scoring one application.
// Exactly one row exists per application; re-scoring overwrites it.
type MatchScore struct {
	ID              uuid.UUID              `json:"id"`
	ApplicationID   uuid.UUID              `json:"application_id"`
	OrganizationID  uuid.UUID              `json:"organization_id"`
	CandidateID     uuid.UUID              `json:"candidate_id"`
	JobID           uuid.UUID              `json:"job_id"`
	OverallScore    int                    `json:"overall_score"`
	SkillScore      int                    `json:"skill_score"`
	ExperienceScore int                    `json:"experience_score"`
	SemanticScore   int                    `json:"semantic_score"`
	AISummary       string                 `json:"ai_summary"`
	Recommendation  scoring.Recommendation `json:"recommendation"`
	Strengths       []string               `json:"strengths"`
	Concerns        []string               `json:"concerns"`
	Breakdown       Breakdown              `json:"breakdown"`
	Weights         scoring.Weights        `json:"weights"`
	ModelUsed       string                 `json:"model_used"`
	ScoredAt        time.Time              `json:"scored_at"`
}

// Breakdown holds the structured detail behind the skill and experience scores.
type Breakdown struct {
	SkillsFound       []string `json:"skills_found"`
	SkillsMissing     []string `json:"skills_missing"`
	ExperienceDetails string   `json:"experience_details"`
}

// ScoringConfig holds per-organization scoring settings. A row is created
// lazily with defaults the first time an organization is looked up.
type ScoringConfig struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	Enabled        bool            `json:"enabled"`
	AutoScore      bool            `json:"auto_score"`
	Weights        scoring.Weights `json:"weights"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DefaultScoringConfig returns the documented defaults used when an
// organization has no stored configuration:
// weights {skill:40, experience:30, semantic:30}, enabled, auto-score on.
func DefaultScoringConfig(orgID uuid.UUID) *ScoringConfig {
	return &ScoringConfig{
		OrganizationID: orgID,
		Enabled:        true,
		AutoScore:      true,
		Weights:        scoring.DefaultWeights(),
	}
}

// Application associates one candidate with one job posting. The match engine
// only reads these rows; lifecycle is owned by the surrounding ATS.
type Application struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CandidateID    uuid.UUID `json:"candidate_id"`
	JobID          uuid.UUID `json:"job_id"`
	Candidate      Candidate `json:"candidate"`
	Job            Job       `json:"job"`
}

// Candidate is the read-only candidate profile consumed by the text builder.
type Candidate struct {
	ID               uuid.UUID         `json:"id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	CurrentCompany   string            `json:"current_company,omitempty"`
	CurrentTitle     string            `json:"current_title,omitempty"`
	Location         string            `json:"location,omitempty"`
	ResumeURL        string            `json:"resume_url,omitempty"`
	ResumeParsedData map[string]string `json:"resume_parsed_data,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

// Job is the read-only job posting consumed by the text builder.
type Job struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Department     string    `json:"department,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employment_type"`
	Description    string    `json:"description,omitempty"`
	Requirements   string    `json:"requirements,omitempty"`
}
