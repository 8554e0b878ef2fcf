package scoring

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

const (
	likertMin      = 1
	likertMax      = 5
	likertMidpoint = 3
)

// NormalizedSet is the validated view of one response list. Items keeps input
// order and holds every usable response; TraitItems and Instruments are
// subsets of it.
type NormalizedSet struct {
	Items       []domain.WeightedItem
	TraitItems  []domain.WeightedItem
	Instruments map[string][]domain.WeightedItem
	Ignored     int
}

var instrumentAliases = map[string]string{
	"attention": norms.InstrumentAttention,
	"adhd":      norms.InstrumentAttention,
	"asrs":      norms.InstrumentAttention,
	"autism":    norms.InstrumentAutism,
	"asd":       norms.InstrumentAutism,
	"aq10":      norms.InstrumentAutism,
	"aq-10":     norms.InstrumentAutism,
}

// ResolveInstrument maps an instrument tag to its canonical id.
func ResolveInstrument(tag string) (string, bool) {
	id, ok := instrumentAliases[strings.ToLower(strings.TrimSpace(tag))]
	return id, ok
}

// TimeWeight is the step function applied to response latency.
func TimeWeight(responseTimeMs int64) float64 {
	switch {
	case responseTimeMs < 2000:
		return 0.70
	case responseTimeMs < 3000:
		return 0.85
	case responseTimeMs <= 15000:
		return 1.00
	case responseTimeMs <= 30000:
		return 0.90
	default:
		return 0.80
	}
}

// ItemWeight returns the declared item weight, or 1 when it is missing or not strictly positive.
func ItemWeight(r domain.RawResponse) float64 {
	if r.Weight == nil {
		return 1
	}
	w := *r.Weight
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 1
	}
	return w
}

// HasLikertValue reports whether s carries a usable number.
func HasLikertValue(s domain.LikertScore) bool {
	return s.Set && !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// LikertValue resolves a raw score: missing or non-finite defaults to the midpoint, the rest is rounded and clamped to 1..5.
func LikertValue(s domain.LikertScore) int {
	if !HasLikertValue(s) {
		return likertMidpoint
	}
	v := int(math.Round(s.Value))
	if v < likertMin {
		return likertMin
	}
	if v > likertMax {
		return likertMax
	}
	return v
}

// AdjustedScore inverts reverse-coded items (6 - raw).
func AdjustedScore(raw int, reverse bool) int {
	if reverse {
		return likertMax + 1 - raw
	}
	return raw
}

// WeighItem builds the weighted view of a single response. trait may be empty for instrument-only items.
func WeighItem(r domain.RawResponse, trait domain.Trait) domain.WeightedItem {
	raw := LikertValue(r.RawScore)
	tw := TimeWeight(r.ResponseTimeMs)
	return domain.WeightedItem{
		QuestionID:     r.QuestionID,
		Trait:          trait,
		RawScore:       raw,
		ReverseCoded:   r.ReverseCoded,
		ResponseTimeMs: r.ResponseTimeMs,
		Instrument:     r.Instrument,
		Subcategory:    r.Subcategory,
		AdjustedScore:  AdjustedScore(raw, r.ReverseCoded),
		TimeWeight:     tw,
		CombinedWeight: ItemWeight(r) * tw,
		Imputed:        !HasLikertValue(r.RawScore),
	}
}

// NormalizeResponses validates the raw list. Responses with neither a known
// trait nor a known instrument tag are dropped and logged, never failed.
// Imputed scores only feed trait aggregation: quality analysis and clinical
// instruments see answered items only.
func NormalizeResponses(responses []domain.RawResponse, logger *zap.Logger) NormalizedSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := NormalizedSet{Instruments: map[string][]domain.WeightedItem{}}

	for _, r := range responses {
		trait, hasTrait := domain.ParseTrait(r.Trait)
		instrument, hasInstrument := ResolveInstrument(r.Instrument)
		if !hasTrait && !hasInstrument {
			set.Ignored++
			logger.Warn("ignoring response without recognized trait",
				zap.String("question_id", r.QuestionID),
				zap.String("trait", r.Trait),
				zap.String("instrument", r.Instrument),
			)
			continue
		}

		item := WeighItem(r, trait)
		if hasInstrument {
			item.Instrument = instrument
			if !item.Imputed {
				set.Instruments[instrument] = append(set.Instruments[instrument], item)
			}
		}
		if hasTrait {
			set.TraitItems = append(set.TraitItems, item)
		}
		if !item.Imputed {
			set.Items = append(set.Items, item)
		}
	}
	return set
}
