package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/match-engine/internal/scoring"
)

func TestDefaultScoringConfig(t *testing.T) {
	orgID := uuid.New()
	cfg := DefaultScoringConfig(orgID)

	assert.Equal(t, orgID, cfg.OrganizationID)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.AutoScore)
	assert.Equal(t, scoring.Weights{Skill: 40, Experience: 30, Semantic: 30}, cfg.Weights)
}
