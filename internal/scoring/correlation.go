package scoring

import (
	"math"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

const correlationDamping = 0.3

var builtinPriors = norms.Default()

// EstimateCorrelations damps each research prior by how far apart the two
// trait scores are. Each unordered pair is computed once and mirrored.
func EstimateCorrelations(scores domain.TraitScoreSet, table *norms.Table) domain.CorrelationMatrix {
	m := make(domain.CorrelationMatrix, len(domain.CanonicalTraits))
	for _, t := range domain.CanonicalTraits {
		m[t] = make(map[domain.Trait]float64, len(domain.CanonicalTraits))
		m[t][t] = 1.0
	}

	for i, a := range domain.CanonicalTraits {
		for _, b := range domain.CanonicalTraits[i+1:] {
			prior, ok := table.Correlation(a, b)
			if !ok {
				prior, _ = builtinPriors.Correlation(a, b)
			}
			gap := math.Abs(float64(scores[a].Score-scores[b].Score)) / 100
			r := clampFloat(prior*(1-correlationDamping*gap), -1, 1)
			m[a][b] = r
			m[b][a] = r
		}
	}
	return m
}
