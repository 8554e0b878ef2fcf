package scoring

import (
	"math"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

const (
	LikelihoodLow      = "Low"
	LikelihoodModerate = "Moderate"
	LikelihoodHigh     = "High"
	LikelihoodVeryHigh = "Very High"

	MethodNorms    = "norms"
	MethodFallback = "fallback"
	MethodNoData   = "no-data"

	SeverityNone = "none"

	minorNote = "instrument validated for adults"
)

var fallbackLikelihoods = [4]string{LikelihoodLow, LikelihoodModerate, LikelihoodHigh, LikelihoodVeryHigh}

type subIndicator struct {
	name         string
	tags         []string
	linearFactor float64
	jitter       bool
}

type instrumentSpec struct {
	id              string
	defaultScaleMax int
	itemMax         float64
	itemValue       func(adjusted int) int
	fallbackBands   [4]string
	fallbackCutoff  float64
	subIndicators   []subIndicator
}

// Attention items score 0..4 (adjusted Likert minus one).
var attentionSpec = instrumentSpec{
	id:              norms.InstrumentAttention,
	defaultScaleMax: 24,
	itemMax:         4,
	itemValue:       func(adjusted int) int { return adjusted - 1 },
	fallbackBands:   [4]string{"minimal", "mild", "moderate", "severe"},
	fallbackCutoff:  14.0 / 24.0,
	subIndicators: []subIndicator{
		{name: "inattention", tags: []string{"inattention", "attention", "focus"}, linearFactor: 1.0},
		{name: "hyperactivity", tags: []string{"hyperactivity", "hyperactive"}, linearFactor: 0.85},
		{name: "impulsivity", tags: []string{"impulsivity", "impulsive"}, linearFactor: 0.75},
		{name: "executive-function", tags: []string{"executive-function", "executive", "organization"}, linearFactor: 0.9, jitter: true},
	},
}

// Autism items score one point when the adjusted answer agrees (4 or 5).
var autismSpec = instrumentSpec{
	id:              norms.InstrumentAutism,
	defaultScaleMax: 10,
	itemMax:         1,
	itemValue: func(adjusted int) int {
		if adjusted >= 4 {
			return 1
		}
		return 0
	},
	fallbackBands:  [4]string{"minimal", "below-threshold", "threshold", "significant"},
	fallbackCutoff: 0.6,
	subIndicators: []subIndicator{
		{name: "social-communication", tags: []string{"social-communication", "social", "communication"}, linearFactor: 1.0},
		{name: "attention-to-detail", tags: []string{"attention-to-detail", "detail"}, linearFactor: 0.8},
		{name: "sensory-sensitivity", tags: []string{"sensory-sensitivity", "sensory"}, linearFactor: 0.9, jitter: true},
		{name: "routine-preference", tags: []string{"routine-preference", "routine", "attention-switching"}, linearFactor: 0.85},
	},
}

// ClinicalScreener scores instrument-tagged items. It never looks at trait data.
type ClinicalScreener struct {
	table       *norms.Table
	variability Variability
}

func NewClinicalScreener(table *norms.Table, variability Variability) ClinicalScreener {
	if variability == nil {
		variability = noVariability{}
	}
	return ClinicalScreener{table: table, variability: variability}
}

func (s ClinicalScreener) ScreenAttention(items []domain.WeightedItem) domain.ClinicalScreeningResult {
	return s.screen(attentionSpec, items)
}

func (s ClinicalScreener) ScreenAutism(items []domain.WeightedItem) domain.ClinicalScreeningResult {
	return s.screen(autismSpec, items)
}

// ScreenAll runs every known instrument in a fixed order.
func (s ClinicalScreener) ScreenAll(byInstrument map[string][]domain.WeightedItem) []domain.ClinicalScreeningResult {
	return []domain.ClinicalScreeningResult{
		s.ScreenAttention(byInstrument[norms.InstrumentAttention]),
		s.ScreenAutism(byInstrument[norms.InstrumentAutism]),
	}
}

func (s ClinicalScreener) screen(spec instrumentSpec, items []domain.WeightedItem) domain.ClinicalScreeningResult {
	items = answeredItems(items)
	if len(items) == 0 {
		return s.noData(spec)
	}
	if s.variability == nil {
		s.variability = noVariability{}
	}

	values := make([]int, len(items))
	raw := 0
	for i, it := range items {
		values[i] = spec.itemValue(it.AdjustedScore)
		raw += values[i]
	}

	inst, ok := s.table.Instrument(spec.id)
	if !ok || len(inst.Bands) == 0 {
		return s.fallback(spec, items, values, raw)
	}

	span := inst.ScaleMax - inst.ScaleMin
	fraction := float64(raw) / (float64(len(items)) * spec.itemMax)
	normalized := clampInt(inst.ScaleMin+int(math.Round(fraction*float64(span))), inst.ScaleMin, inst.ScaleMax)

	band, ok := inst.BandFor(normalized)
	if !ok {
		return s.fallback(spec, items, values, raw)
	}

	return domain.ClinicalScreeningResult{
		Instrument:      spec.id,
		HasData:         true,
		RawScore:        raw,
		NormalizedScore: normalized,
		ScaleMax:        inst.ScaleMax,
		Percentile:      bandPercentile(band, normalized),
		SeverityBand:    band.Label,
		Likelihood:      band.Likelihood,
		AboveCutoff:     normalized >= inst.Cutoff,
		SubIndicators:   s.subIndicators(spec, items, values, float64(normalized-inst.ScaleMin)/float64(span)),
		ItemCount:       len(items),
		Method:          MethodNorms,
	}
}

// fallback is the average-based formula used when the norms table has no
// definition for the instrument.
func (s ClinicalScreener) fallback(spec instrumentSpec, items []domain.WeightedItem, values []int, raw int) domain.ClinicalScreeningResult {
	mean := float64(raw) / float64(len(values))
	fraction := clampFloat(mean/spec.itemMax, 0, 1)

	idx := 3
	switch {
	case fraction < 0.4:
		idx = 0
	case fraction < 0.6:
		idx = 1
	case fraction < 0.75:
		idx = 2
	}

	return domain.ClinicalScreeningResult{
		Instrument:      spec.id,
		HasData:         true,
		RawScore:        raw,
		NormalizedScore: int(math.Round(fraction * float64(spec.defaultScaleMax))),
		ScaleMax:        spec.defaultScaleMax,
		Percentile:      clampInt(1+int(math.Round(fraction*98)), 1, 99),
		SeverityBand:    spec.fallbackBands[idx],
		Likelihood:      fallbackLikelihoods[idx],
		AboveCutoff:     fraction >= spec.fallbackCutoff,
		SubIndicators:   s.subIndicators(spec, items, values, fraction),
		ItemCount:       len(values),
		Method:          MethodFallback,
	}
}

func (s ClinicalScreener) noData(spec instrumentSpec) domain.ClinicalScreeningResult {
	scaleMax := spec.defaultScaleMax
	if inst, ok := s.table.Instrument(spec.id); ok {
		scaleMax = inst.ScaleMax
	}
	return domain.ClinicalScreeningResult{
		Instrument:    spec.id,
		ScaleMax:      scaleMax,
		SeverityBand:  SeverityNone,
		Likelihood:    LikelihoodLow,
		SubIndicators: map[string]int{},
		Method:        MethodNoData,
	}
}

// subIndicators averages tagged items per indicator; indicators without tagged
// items are derived linearly from the overall position on the scale.
func (s ClinicalScreener) subIndicators(spec instrumentSpec, items []domain.WeightedItem, values []int, position float64) map[string]int {
	out := make(map[string]int, len(spec.subIndicators))
	for _, sub := range spec.subIndicators {
		sum, n := 0, 0
		for i, it := range items {
			if matchesTag(it.Subcategory, sub.tags) {
				sum += values[i]
				n++
			}
		}

		var v float64
		if n > 0 {
			v = float64(sum) / float64(n) / spec.itemMax * 100
		} else {
			v = position * 100 * sub.linearFactor
		}
		if sub.jitter {
			v += s.variability.Jitter(spec.id + "." + sub.name)
		}
		out[sub.name] = clampInt(int(math.Round(v)), 0, 100)
	}
	return out
}

func matchesTag(tag string, accepted []string) bool {
	tag = normalizeTag(tag)
	if tag == "" {
		return false
	}
	for _, a := range accepted {
		if tag == a {
			return true
		}
	}
	return false
}

// bandPercentile interpolates linearly inside the band's percentile range.
func bandPercentile(band norms.Band, normalized int) int {
	if band.Max <= band.Min {
		return clampInt(band.PercentileMin, 1, 99)
	}
	pos := float64(normalized-band.Min) / float64(band.Max-band.Min)
	p := band.PercentileMin + int(math.Round(pos*float64(band.PercentileMax-band.PercentileMin)))
	return clampInt(p, 1, 99)
}

// answeredItems drops items whose score was imputed.
func answeredItems(items []domain.WeightedItem) []domain.WeightedItem {
	out := make([]domain.WeightedItem, 0, len(items))
	for _, it := range items {
		if !it.Imputed {
			out = append(out, it)
		}
	}
	return out
}
