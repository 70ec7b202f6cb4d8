package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_ConcreteScenario(t *testing.T) {
	// raw = (80*40 + 70*30 + 60*30) / 100 = 71.0
	// curved = 100 * (0.71)^0.75 ≈ 77.35 -> 77
	overall := Aggregate(80, 70, 60, Weights{Skill: 40, Experience: 30, Semantic: 30})
	assert.Equal(t, 77, overall)
}

func TestAggregate_Endpoints(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 100, Aggregate(100, 100, 100, w))
	assert.Equal(t, 0, Aggregate(0, 0, 0, w))
}

func TestAggregate_EndpointsAtAnyPositiveWeights(t *testing.T) {
	weights := []Weights{
		{Skill: 1, Experience: 1, Semantic: 1},
		{Skill: 100, Experience: 0, Semantic: 0},
		{Skill: 33, Experience: 33, Semantic: 34},
		{Skill: 0.4, Experience: 0.3, Semantic: 0.3},
	}
	for _, w := range weights {
		assert.Equal(t, 100, Aggregate(100, 100, 100, w), "weights %+v", w)
		assert.Equal(t, 0, Aggregate(0, 0, 0, w), "weights %+v", w)
	}
}

func TestAggregate_ZeroTotalWeight(t *testing.T) {
	assert.Equal(t, 0, Aggregate(80, 70, 60, Weights{}))
}

func TestAggregate_NormalizesNonStandardTotals(t *testing.T) {
	// Scaling all weights by a constant must not change the result.
	a := Aggregate(80, 70, 60, Weights{Skill: 40, Experience: 30, Semantic: 30})
	b := Aggregate(80, 70, 60, Weights{Skill: 4, Experience: 3, Semantic: 3})
	c := Aggregate(80, 70, 60, Weights{Skill: 400, Experience: 300, Semantic: 300})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestAggregate_AlwaysInRange(t *testing.T) {
	w := Weights{Skill: 50, Experience: 25, Semantic: 25}
	for skill := 0; skill <= 100; skill += 20 {
		for exp := 0; exp <= 100; exp += 20 {
			for sem := 0; sem <= 100; sem += 20 {
				overall := Aggregate(skill, exp, sem, w)
				assert.GreaterOrEqual(t, overall, 0)
				assert.LessOrEqual(t, overall, 100)
			}
		}
	}
}

func TestAggregate_CurveBoostsMidRange(t *testing.T) {
	// The 0.75 exponent rewards mid-range matches: the curved result should
	// exceed the raw weighted average away from the endpoints.
	w := Weights{Skill: 1, Experience: 1, Semantic: 1}
	assert.Greater(t, Aggregate(50, 50, 50, w), 50)
	assert.Greater(t, Aggregate(70, 70, 70, w), 70)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 42, ClampScore(42))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(137))
}

func TestWeights_Valid(t *testing.T) {
	assert.True(t, DefaultWeights().Valid())
	assert.True(t, Weights{Skill: 1}.Valid())
	assert.False(t, Weights{}.Valid())
	assert.False(t, Weights{Skill: -1, Experience: 50, Semantic: 51}.Valid())
}
