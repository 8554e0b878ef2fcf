package scoring

import (
	"math"

	"psyscore/internal/domain"
)

const (
	baseConfidence       = 0.70
	maxConfidence        = 0.95
	minReliability       = 0.3
	straightLineRunLimit = 8
	straightLinePenalty  = 0.7
)

// BaseConfidence grows with the number of scored responses.
func BaseConfidence(responses int) float64 {
	c := baseConfidence
	if responses >= 30 {
		c += 0.10
	}
	if responses >= 50 {
		c += 0.10
	}
	return math.Min(maxConfidence, c)
}

// AssessReliability merges the sample-size confidence with the straight-lining signal.
func AssessReliability(responses int, quality domain.QualityAssessment) domain.ReliabilityAssessment {
	conf := BaseConfidence(responses)
	rel := conf
	penalized := quality.LongestRun > straightLineRunLimit
	if penalized {
		rel *= straightLinePenalty
	}
	rel = clampFloat(math.Max(minReliability, rel), 0, 1)
	return domain.ReliabilityAssessment{
		Confidence:            conf,
		Reliability:           rel,
		QualityConfidence:     clampFloat(quality.Confidence, 0, 1),
		StraightLiningPenalty: penalized,
	}
}

// Interval is score ± round((1-reliability)*10), clamped to [0,100].
func Interval(score int, reliability float64) domain.ConfidenceInterval {
	half := int(math.Round((1 - reliability) * 10))
	return domain.ConfidenceInterval{
		Lower:        clampInt(score-half, 0, 100),
		Upper:        clampInt(score+half, 0, 100),
		LevelPercent: int(math.Round(reliability * 100)),
	}
}

// Intervals builds one interval per trait.
func Intervals(scores domain.TraitScoreSet, reliability float64) map[domain.Trait]domain.ConfidenceInterval {
	out := make(map[domain.Trait]domain.ConfidenceInterval, len(domain.CanonicalTraits))
	for _, t := range domain.CanonicalTraits {
		out[t] = Interval(scores[t].Score, reliability)
	}
	return out
}
