package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Read-only application/candidate/job access. The match engine never mutates
// these tables; it only reads them and writes match_scores.
// -----------------------------------------------------------------------------

// GetApplication retrieves an application with its candidate and job joined,
// or nil if no such application exists.
func (db *DB) GetApplication(ctx context.Context, applicationID uuid.UUID) (*Application, error) {
	var app Application
	var parsedJSON, tagsJSON []byte
	var currentCompany, currentTitle, candLocation, resumeURL, notes *string
	var department, jobLocation, description, requirements *string

	err := db.pool.QueryRow(ctx,
		`SELECT a.id, a.organization_id, a.candidate_id, a.job_id,
		        c.first_name, c.last_name, c.email, c.current_company, c.current_title,
		        c.location, c.resume_url, c.resume_parsed_data, c.tags, c.notes,
		        j.title, j.department, j.location, j.employment_type, j.description, j.requirements
		 FROM applications a
		 JOIN candidates c ON c.id = a.candidate_id
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1`,
		applicationID,
	).Scan(&app.ID, &app.OrganizationID, &app.CandidateID, &app.JobID,
		&app.Candidate.FirstName, &app.Candidate.LastName, &app.Candidate.Email,
		&currentCompany, &currentTitle, &candLocation, &resumeURL, &parsedJSON, &tagsJSON, &notes,
		&app.Job.Title, &department, &jobLocation, &app.Job.EmploymentType, &description, &requirements)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	app.Candidate.ID = app.CandidateID
	app.Job.ID = app.JobID

	app.Candidate.CurrentCompany = deref(currentCompany)
	app.Candidate.CurrentTitle = deref(currentTitle)
	app.Candidate.Location = deref(candLocation)
	app.Candidate.ResumeURL = deref(resumeURL)
	app.Candidate.Notes = deref(notes)
	app.Job.Department = deref(department)
	app.Job.Location = deref(jobLocation)
	app.Job.Description = deref(description)
	app.Job.Requirements = deref(requirements)

	if parsedJSON != nil {
		_ = json.Unmarshal(parsedJSON, &app.Candidate.ResumeParsedData)
	}
	if tagsJSON != nil {
		_ = json.Unmarshal(tagsJSON, &app.Candidate.Tags)
	}

	return &app, nil
}

// ListApplicationIDsForJob retrieves every application id for a job, in
// stable creation order. This is the forced re-score target set.
func (db *DB) ListApplicationIDsForJob(ctx context.Context, jobID, orgID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM applications
		 WHERE job_id = $1 AND organization_id = $2
		 ORDER BY created_at, id`,
		jobID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ListUnscoredApplicationIDs retrieves application ids for a job that have no
// persisted match score. This is the automatic batch target set.
func (db *DB) ListUnscoredApplicationIDs(ctx context.Context, jobID, orgID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT a.id FROM applications a
		 LEFT JOIN match_scores m ON m.application_id = a.id
		 WHERE a.job_id = $1 AND a.organization_id = $2 AND m.id IS NULL
		 ORDER BY a.created_at, a.id`,
		jobID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored applications: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan application id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
