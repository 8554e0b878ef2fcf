package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"psyscore/internal/domain"
)

func traitItem(trait domain.Trait, raw int, reverse bool, ms int64) domain.WeightedItem {
	return WeighItem(domain.RawResponse{
		QuestionID:     string(trait),
		Trait:          string(trait),
		RawScore:       domain.Score(float64(raw)),
		ReverseCoded:   reverse,
		ResponseTimeMs: ms,
	}, trait)
}

func TestScaleScore(t *testing.T) {
	tests := []struct {
		name     string
		mean     float64
		expected int
	}{
		{name: "midpoint maps to 50", mean: 3, expected: 50},
		{name: "top of scale is compressed", mean: 5, expected: 98},
		{name: "bottom of scale is lifted", mean: 1, expected: 3},
		{name: "agree", mean: 4, expected: 74},
		{name: "disagree", mean: 2, expected: 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScaleScore(tt.mean))
		})
	}
}

func TestWeightedMeanUsesCombinedWeight(t *testing.T) {
	items := []domain.WeightedItem{
		traitItem(domain.Openness, 5, false, 5000), // weight 1.0
		traitItem(domain.Openness, 1, false, 1000), // weight 0.7
	}
	mean, ok := WeightedMean(items)
	assert.True(t, ok)
	assert.InDelta(t, 5.7/1.7, mean, 1e-9)
	assert.Equal(t, 58, ScaleScore(mean))
}

func TestAggregateTraits(t *testing.T) {
	items := []domain.WeightedItem{
		traitItem(domain.Openness, 5, false, 5000),
		traitItem(domain.Openness, 5, false, 5000),
		traitItem(domain.Conscientiousness, 5, true, 5000),
		traitItem(domain.Extraversion, 4, false, 5000),
	}

	set := AggregateTraits(items, zap.NewNop())

	assert.Equal(t, domain.TraitScore{Score: 98, Items: 2}, set[domain.Openness])
	assert.Equal(t, domain.TraitScore{Score: 3, Items: 1}, set[domain.Conscientiousness])
	assert.Equal(t, domain.TraitScore{Score: 74, Items: 1}, set[domain.Extraversion])
	assert.Equal(t, domain.TraitScore{Score: 50, Items: 0}, set[domain.Agreeableness])
	assert.Equal(t, domain.TraitScore{Score: 50, Items: 0}, set[domain.Neuroticism])
}

func TestAggregateTraitsEmptyDefaultsToFifty(t *testing.T) {
	set := AggregateTraits(nil, nil)
	assert.Len(t, set, 5)
	for _, trait := range domain.CanonicalTraits {
		assert.Equal(t, 50, set[trait].Score, string(trait))
	}
}

func TestAggregatedScoresStayInRange(t *testing.T) {
	for raw := 1; raw <= 5; raw++ {
		for _, reverse := range []bool{false, true} {
			set := AggregateTraits([]domain.WeightedItem{traitItem(domain.Agreeableness, raw, reverse, 500)}, nil)
			score := set[domain.Agreeableness].Score
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
