package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecommendation_KnownValues(t *testing.T) {
	for _, r := range []Recommendation{StrongMatch, GoodMatch, ModerateMatch, WeakMatch, PoorMatch} {
		assert.Equal(t, r, NormalizeRecommendation(string(r)))
	}
}

func TestNormalizeRecommendation_FallsBackToModerate(t *testing.T) {
	assert.Equal(t, ModerateMatch, NormalizeRecommendation(""))
	assert.Equal(t, ModerateMatch, NormalizeRecommendation("excellent"))
	assert.Equal(t, ModerateMatch, NormalizeRecommendation("STRONG_MATCH"))
}
