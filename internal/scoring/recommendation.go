package scoring

// Recommendation is the model's qualitative verdict on a candidate/job match.
type Recommendation string

// Recommendation values, strongest to weakest.
const (
	StrongMatch   Recommendation = "strong_match"
	GoodMatch     Recommendation = "good_match"
	ModerateMatch Recommendation = "moderate_match"
	WeakMatch     Recommendation = "weak_match"
	PoorMatch     Recommendation = "poor_match"
)

// Valid reports whether r is one of the known recommendation values.
func (r Recommendation) Valid() bool {
	switch r {
	case StrongMatch, GoodMatch, ModerateMatch, WeakMatch, PoorMatch:
		return true
	}
	return false
}

// NormalizeRecommendation maps a raw model string to a known recommendation,
// defaulting to moderate_match for anything unrecognized.
func NormalizeRecommendation(raw string) Recommendation {
	r := Recommendation(raw)
	if r.Valid() {
		return r
	}
	return ModerateMatch
}
