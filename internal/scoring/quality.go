package scoring

import (
	"math"

	"psyscore/internal/domain"
)

const (
	PatternInsufficientData = "insufficient-data"
	PatternStraightLining   = "straight-lining"
	PatternExtreme          = "extreme-responding"
	PatternMidpoint         = "midpoint-responding"
	PatternRushed           = "rushed-responses"
	PatternUniformTiming    = "uniform-timing"
	PatternFastAverage      = "fast-average"

	defaultQuality = 0.7
)

// QualityAssessor produces data-quality signals for a response list.
type QualityAssessor interface {
	Assess(items []domain.WeightedItem) domain.QualityAssessment
}

// ResponseQualityAnalyzer is the built-in assessor: run length, endpoint and
// midpoint rates, and timing, each applying a multiplicative penalty.
type ResponseQualityAnalyzer struct{}

func (ResponseQualityAnalyzer) Assess(items []domain.WeightedItem) domain.QualityAssessment {
	if len(items) == 0 {
		return domain.QualityAssessment{
			Consistency:  defaultQuality,
			Authenticity: defaultQuality,
			Confidence:   defaultQuality,
			Patterns:     []string{PatternInsufficientData},
		}
	}

	q := domain.QualityAssessment{
		Consistency:  1,
		Authenticity: 1,
		Patterns:     []string{},
		LongestRun:   LongestRun(items),
		ExtremeRate:  rate(items, func(v int) bool { return v == likertMin || v == likertMax }),
		MidpointRate: rate(items, func(v int) bool { return v == likertMidpoint }),
		Timing:       AnalyzeTiming(items),
	}

	if q.LongestRun > 5 {
		q.Consistency *= 0.8
		q.Patterns = append(q.Patterns, PatternStraightLining)
	}
	if q.ExtremeRate > 0.7 {
		q.Authenticity *= 0.85
		q.Patterns = append(q.Patterns, PatternExtreme)
	}
	if q.MidpointRate > 0.5 {
		q.Authenticity *= 0.85
		q.Patterns = append(q.Patterns, PatternMidpoint)
	}
	if q.Timing.TimedResponses >= 2 {
		if q.Timing.RushedFraction > 0.3 {
			q.Authenticity *= 0.75
			q.Patterns = append(q.Patterns, PatternRushed)
		}
		if q.Timing.VarianceMs < 1000 {
			q.Consistency *= 0.9
			q.Patterns = append(q.Patterns, PatternUniformTiming)
		}
		if q.Timing.AverageMs < 2000 {
			q.Authenticity *= 0.8
			q.Patterns = append(q.Patterns, PatternFastAverage)
		}
	}

	q.Consistency = clampFloat(q.Consistency, 0, 1)
	q.Authenticity = clampFloat(q.Authenticity, 0, 1)
	q.Confidence = (q.Consistency + q.Authenticity) / 2
	return q
}

// LongestRun is the longest streak of identical consecutive raw scores.
func LongestRun(items []domain.WeightedItem) int {
	if len(items) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(items); i++ {
		if items[i].RawScore == items[i-1].RawScore {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 1
	}
	return longest
}

func rate(items []domain.WeightedItem, match func(int) bool) float64 {
	if len(items) == 0 {
		return 0
	}
	n := 0
	for _, it := range items {
		if match(it.RawScore) {
			n++
		}
	}
	return float64(n) / float64(len(items))
}

// AnalyzeTiming summarizes response latencies; untimed (<=0 ms) responses are skipped.
func AnalyzeTiming(items []domain.WeightedItem) domain.TimingAnalysis {
	times := make([]float64, 0, len(items))
	for _, it := range items {
		if it.ResponseTimeMs > 0 {
			times = append(times, float64(it.ResponseTimeMs))
		}
	}
	if len(times) == 0 {
		return domain.TimingAnalysis{}
	}

	var sum float64
	for _, t := range times {
		sum += t
	}
	mean := sum / float64(len(times))
	threshold := math.Max(1500, 0.3*mean)

	rushed := 0
	var sq float64
	for _, t := range times {
		if t < threshold {
			rushed++
		}
		d := t - mean
		sq += d * d
	}

	return domain.TimingAnalysis{
		AverageMs:       mean,
		RushThresholdMs: threshold,
		RushedFraction:  float64(rushed) / float64(len(times)),
		VarianceMs:      math.Sqrt(sq / float64(len(times))),
		TimedResponses:  len(times),
	}
}
