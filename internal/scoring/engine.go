// Package scoring turns raw Likert responses into trait scores, quality
// signals, percentiles, an archetype and clinical screening results.
//
// An Engine holds only read-only collaborators, so one instance can score any
// number of sessions in parallel.
package scoring

import (
	"go.uber.org/zap"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

type Engine struct {
	table       *norms.Table
	quality     QualityAssessor
	facets      FacetAnalyzer
	variability Variability
	logger      *zap.Logger
}

type Option func(*Engine)

// WithQualityAssessor replaces the built-in response quality analyzer.
func WithQualityAssessor(q QualityAssessor) Option {
	return func(e *Engine) {
		if q != nil {
			e.quality = q
		}
	}
}

// WithFacetAnalyzer enables facet scores below the traits.
func WithFacetAnalyzer(f FacetAnalyzer) Option {
	return func(e *Engine) {
		if f != nil {
			e.facets = f
		}
	}
}

// WithVariability injects jitter for the sensory and executive-function sub-scores.
func WithVariability(v Variability) Option {
	return func(e *Engine) {
		if v != nil {
			e.variability = v
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an engine. A nil table is allowed: percentiles fall back to 50
// and clinical screening to the average-based formula.
func New(table *norms.Table, opts ...Option) *Engine {
	e := &Engine{
		table:       table,
		quality:     ResponseQualityAnalyzer{},
		facets:      noFacets{},
		variability: noVariability{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Norms exposes the read-only table the engine scores against.
func (e *Engine) Norms() *norms.Table {
	return e.table
}

// Score runs the full pipeline. It never fails: invalid input degrades to
// documented defaults.
func (e *Engine) Score(responses []domain.RawResponse, meta domain.SessionMeta) domain.ScoringResult {
	tier := domain.ParseTier(meta.Tier)
	set := NormalizeResponses(responses, e.logger)

	traits := AggregateTraits(set.TraitItems, e.logger)
	profile := traits.Profile()
	quality := e.quality.Assess(set.Items)
	reliability := AssessReliability(len(set.TraitItems), quality)

	result := domain.ScoringResult{
		Tier:          tier,
		Traits:        traits,
		Facets:        e.facets.AnalyzeFacets(set.TraitItems),
		Quality:       quality,
		Percentiles:   NormalizeTraits(traits, e.table),
		Correlations:  EstimateCorrelations(traits, e.table),
		Archetype:     ClassifyArchetype(profile),
		Clinical:      []domain.ClinicalScreeningResult{},
		Reliability:   reliability,
		Intervals:     Intervals(traits, reliability.Reliability),
		ResponseCount: len(responses),
		ScoredCount:   len(set.TraitItems),
		IgnoredCount:  set.Ignored,
	}

	if tier != domain.TierBasic {
		screener := NewClinicalScreener(e.table, e.variability)
		result.Clinical = screener.ScreenAll(set.Instruments)
		if meta.IsMinor() {
			for i := range result.Clinical {
				if result.Clinical[i].HasData {
					result.Clinical[i].Note = minorNote
				}
			}
		}
	}

	e.logger.Debug("assessment scored",
		zap.Int("responses", result.ResponseCount),
		zap.Int("scored", result.ScoredCount),
		zap.Int("ignored", result.IgnoredCount),
		zap.String("archetype", result.Archetype.Name),
		zap.Float64("reliability", reliability.Reliability),
	)
	return result
}
