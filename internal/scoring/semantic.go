package scoring

import "math"

// Observed resume/job cosine similarities cluster between ~0.45 (weak) and
// ~0.85 (strong). The linear rescale maps 0.45 -> 0 and 0.85 -> 100, which
// spreads that band across the full 0-100 range. The constants are a contract:
// changing them silently changes every persisted semantic score.
const (
	similarityFloor = 0.45
	similarityScale = 250
)

// SemanticScore rescales a cosine similarity into a 0-100 score:
// score = clamp(round(max(0, (similarity - 0.45) * 250)), 0, 100).
func SemanticScore(similarity float64) int {
	scaled := (similarity - similarityFloor) * similarityScale
	if scaled < 0 {
		scaled = 0
	}
	return ClampScore(int(math.Round(scaled)))
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched lengths or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
