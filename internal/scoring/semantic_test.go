package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticScore_RescaleContract(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		want       int
	}{
		{"identical vectors clamp to 100", 1.0, 100}, // (1-0.45)*250 = 137.5
		{"strong cluster ceiling", 0.85, 100},
		{"weak cluster floor", 0.45, 0},
		{"below floor clamps to 0", 0.2, 0},
		{"midpoint of observed band", 0.65, 50},
		{"negative similarity clamps to 0", -0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SemanticScore(tt.similarity))
		})
	}
}

func TestCosineSimilarity_Parallel(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}
