package textbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/match-engine/internal/db"
)

func fullCandidate() *db.Candidate {
	return &db.Candidate{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		CurrentCompany: "Analytical Engines Ltd",
		CurrentTitle:   "Staff Engineer",
		Location:       "London",
		Tags:           []string{"backend", "golang"},
		Notes:          "Strong referral.",
		ResumeParsedData: map[string]string{
			"years_experience": "12",
			"education":        "Mathematics",
		},
	}
}

func TestCandidateText_FixedFieldOrder(t *testing.T) {
	text := CandidateText(fullCandidate(), "resume body")

	expected := strings.Join([]string{
		"Name: Ada Lovelace",
		"Email: ada@example.com",
		"Current Title: Staff Engineer",
		"Current Company: Analytical Engines Ltd",
		"Location: London",
		"Tags: backend, golang",
		"Notes: Strong referral.",
		"Parsed Resume Fields:",
		"  education: Mathematics",
		"  years_experience: 12",
		"Resume:",
		"resume body",
	}, "\n")

	assert.Equal(t, expected, text)
}

func TestCandidateText_Deterministic(t *testing.T) {
	// Parsed resume data lives in a map; the output must still be stable.
	for i := 0; i < 20; i++ {
		assert.Equal(t, CandidateText(fullCandidate(), "r"), CandidateText(fullCandidate(), "r"))
	}
}

func TestCandidateText_OmitsEmptyFields(t *testing.T) {
	c := &db.Candidate{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	text := CandidateText(c, "")

	assert.Equal(t, "Name: Ada Lovelace\nEmail: ada@example.com", text)
	assert.NotContains(t, text, "Tags")
	assert.NotContains(t, text, "Resume:")
	assert.NotContains(t, text, "Parsed Resume Fields")
}

func TestJobText_AllFields(t *testing.T) {
	j := &db.Job{
		Title:          "Backend Engineer",
		Department:     "Platform",
		Location:       "Remote",
		EmploymentType: "full_time",
		Description:    "Build services.",
		Requirements:   "Go, PostgreSQL.",
	}

	expected := strings.Join([]string{
		"Title: Backend Engineer",
		"Department: Platform",
		"Location: Remote",
		"Employment Type: full_time",
		"Description:",
		"Build services.",
		"Requirements:",
		"Go, PostgreSQL.",
	}, "\n")

	assert.Equal(t, expected, JobText(j))
}

func TestJobText_OmitsEmptyFields(t *testing.T) {
	j := &db.Job{Title: "Backend Engineer", EmploymentType: "contract"}
	assert.Equal(t, "Title: Backend Engineer\nEmployment Type: contract", JobText(j))
}
