package scoring

import "math"

// curveExponent controls the upward curve applied to the weighted average.
// Exponents below 1 boost mid-range scores while preserving 0 and 100.
const curveExponent = 0.75

// ClampScore bounds a score to the [0, 100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Aggregate combines the three component scores into a single overall score.
// The components are weight-averaged, then curved with
// curved = 100 * (raw/100)^0.75, then rounded and clamped to [0, 100].
// A non-positive total weight yields 0.
func Aggregate(skill, experience, semantic int, w Weights) int {
	total := w.Total()
	if total <= 0 {
		return 0
	}

	raw := (float64(skill)*w.Skill + float64(experience)*w.Experience + float64(semantic)*w.Semantic) / total
	curved := 100 * math.Pow(raw/100, curveExponent)

	return ClampScore(int(math.Round(curved)))
}
