package scoring

import (
	"math"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

const (
	BandExceptionallyLow  = "exceptionally-low"
	BandVeryLow           = "very-low"
	BandLow               = "low"
	BandBelowAverage      = "below-average"
	BandAverage           = "average"
	BandAboveAverage      = "above-average"
	BandHigh              = "high"
	BandVeryHigh          = "very-high"
	BandExceptionallyHigh = "exceptionally-high"
)

var percentileSteps = []struct {
	maxZ       float64
	percentile int
}{
	{-2.5, 1},
	{-2.0, 2},
	{-1.5, 7},
	{-1.0, 16},
	{-0.5, 31},
	{0, 50},
	{0.5, 69},
	{1.0, 84},
	{1.5, 93},
	{2.0, 98},
}

// PercentileFromZ reads the fixed step table and clamps to [1,99].
func PercentileFromZ(z float64) int {
	if math.IsNaN(z) {
		return 50
	}
	for _, step := range percentileSteps {
		if z <= step.maxZ {
			return clampInt(step.percentile, 1, 99)
		}
	}
	return 99
}

// BandForPercentile names the descriptive band for a percentile.
func BandForPercentile(p int) string {
	switch {
	case p <= 2:
		return BandExceptionallyLow
	case p <= 7:
		return BandVeryLow
	case p <= 16:
		return BandLow
	case p <= 31:
		return BandBelowAverage
	case p <= 69:
		return BandAverage
	case p <= 84:
		return BandAboveAverage
	case p <= 93:
		return BandHigh
	case p <= 98:
		return BandVeryHigh
	default:
		return BandExceptionallyHigh
	}
}

// NormalizeScore maps a trait score against its population norm. A zero std
// dev or a non-finite score yields the 50th percentile.
func NormalizeScore(trait domain.Trait, score float64, norm norms.TraitNorm) domain.PercentileResult {
	if norm.StdDev <= 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		return domain.PercentileResult{Trait: trait, ZScore: 0, Percentile: 50, Band: BandAverage}
	}
	z := (score - norm.Mean) / norm.StdDev
	p := PercentileFromZ(z)
	return domain.PercentileResult{Trait: trait, ZScore: z, Percentile: p, Band: BandForPercentile(p)}
}

// NormalizeTraits produces one PercentileResult per trait in canonical order.
func NormalizeTraits(scores domain.TraitScoreSet, table *norms.Table) []domain.PercentileResult {
	out := make([]domain.PercentileResult, 0, len(domain.CanonicalTraits))
	for _, trait := range domain.CanonicalTraits {
		norm, _ := table.Trait(trait)
		out = append(out, NormalizeScore(trait, float64(scores[trait].Score), norm))
	}
	return out
}
