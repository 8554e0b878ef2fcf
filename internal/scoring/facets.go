package scoring

import (
	"strings"

	"psyscore/internal/domain"
)

// FacetAnalyzer derives finer-grained scores below the five traits.
type FacetAnalyzer interface {
	AnalyzeFacets(items []domain.WeightedItem) map[domain.Trait]map[string]int
}

type noFacets struct{}

func (noFacets) AnalyzeFacets([]domain.WeightedItem) map[domain.Trait]map[string]int { return nil }

// SubcategoryFacetAnalyzer groups trait items by subcategory tag and scores each
// group with the trait aggregation formula. Untagged items only count toward the trait.
type SubcategoryFacetAnalyzer struct{}

func (SubcategoryFacetAnalyzer) AnalyzeFacets(items []domain.WeightedItem) map[domain.Trait]map[string]int {
	groups := map[domain.Trait]map[string][]domain.WeightedItem{}
	for _, it := range items {
		facet := normalizeTag(it.Subcategory)
		if facet == "" || !it.Trait.Valid() {
			continue
		}
		if groups[it.Trait] == nil {
			groups[it.Trait] = map[string][]domain.WeightedItem{}
		}
		groups[it.Trait][facet] = append(groups[it.Trait][facet], it)
	}
	if len(groups) == 0 {
		return nil
	}

	out := make(map[domain.Trait]map[string]int, len(groups))
	for trait, facets := range groups {
		out[trait] = make(map[string]int, len(facets))
		for facet, facetItems := range facets {
			mean, ok := WeightedMean(facetItems)
			if !ok {
				continue
			}
			out[trait][facet] = ScaleScore(mean)
		}
	}
	return out
}

// normalizeTag lowercases and turns spaces/underscores into hyphens.
func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(tag)
}
