// Package scoring implements the numeric core of the match engine: score
// aggregation, semantic similarity rescaling, and recommendation handling.
// Everything in this package is pure and deterministic.
package scoring

// Weights holds the relative importance of each scoring component.
// The UI convention is that they sum to 100, but the aggregator normalizes
// by the actual total, so any non-negative triple with a positive sum works.
type Weights struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Semantic   float64 `json:"semantic"`
}

// DefaultWeights returns the documented default weight split.
func DefaultWeights() Weights {
	return Weights{Skill: 40, Experience: 30, Semantic: 30}
}

// Total returns the sum of all component weights.
func (w Weights) Total() float64 {
	return w.Skill + w.Experience + w.Semantic
}

// Valid reports whether the weights are usable: all non-negative with a
// positive total.
func (w Weights) Valid() bool {
	return w.Skill >= 0 && w.Experience >= 0 && w.Semantic >= 0 && w.Total() > 0
}
