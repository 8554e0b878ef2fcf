package scoring

import (
	"math"

	"go.uber.org/zap"

	"psyscore/internal/domain"
)

const (
	defaultTraitScore = 50
	// compressionFactor pulls extreme averages slightly toward the center. Kept for score compatibility.
	compressionFactor = 0.95
)

// WeightedMean returns the combined-weight mean of adjusted scores.
func WeightedMean(items []domain.WeightedItem) (float64, bool) {
	var num, den float64
	for _, it := range items {
		if it.CombinedWeight <= 0 {
			continue
		}
		num += float64(it.AdjustedScore) * it.CombinedWeight
		den += it.CombinedWeight
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// ScaleScore maps a 1..5 weighted mean onto 0..100.
func ScaleScore(mean float64) int {
	score := int(math.Round((mean-1)*25*compressionFactor + 2.5))
	return clampInt(score, 0, 100)
}

// AggregateTraits combines trait items into the five 0..100 scores. Traits
// without items default to 50.
func AggregateTraits(items []domain.WeightedItem, logger *zap.Logger) domain.TraitScoreSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	byTrait := make(map[domain.Trait][]domain.WeightedItem, len(domain.CanonicalTraits))
	for _, it := range items {
		byTrait[it.Trait] = append(byTrait[it.Trait], it)
	}

	set := make(domain.TraitScoreSet, len(domain.CanonicalTraits))
	for _, trait := range domain.CanonicalTraits {
		traitItems := byTrait[trait]
		mean, ok := WeightedMean(traitItems)
		if !ok {
			logger.Warn("no items for trait, using default score", zap.String("trait", string(trait)))
			set[trait] = domain.TraitScore{Score: defaultTraitScore, Items: 0}
			continue
		}
		set[trait] = domain.TraitScore{Score: ScaleScore(mean), Items: len(traitItems)}
	}
	return set
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
