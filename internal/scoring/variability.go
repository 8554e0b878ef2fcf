package scoring

import (
	"hash/fnv"
	"math/rand/v2"
)

// Variability adds optional jitter to a few derived sub-scores. The default
// engine uses none, which keeps every output reproducible.
type Variability interface {
	Jitter(key string) float64
}

type noVariability struct{}

func (noVariability) Jitter(string) float64 { return 0 }

// SeededVariability yields jitter in [-amplitude, amplitude] that depends only
// on the seed and the key, so identical inputs still produce identical outputs.
type SeededVariability struct {
	seed      uint64
	amplitude float64
}

func NewSeededVariability(seed uint64, amplitude float64) *SeededVariability {
	if amplitude < 0 {
		amplitude = -amplitude
	}
	return &SeededVariability{seed: seed, amplitude: amplitude}
}

func (v *SeededVariability) Jitter(key string) float64 {
	if v == nil || v.amplitude == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	r := rand.New(rand.NewPCG(v.seed, h.Sum64()))
	return (r.Float64()*2 - 1) * v.amplitude
}
