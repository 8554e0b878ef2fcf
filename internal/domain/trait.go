package domain

import "strings"

// Trait identifica una de las cinco dimensiones Big Five (OCEAN).
type Trait string

const (
	Openness          Trait = "openness"
	Conscientiousness Trait = "conscientiousness"
	Extraversion      Trait = "extraversion"
	Agreeableness     Trait = "agreeableness"
	Neuroticism       Trait = "neuroticism"
)

// CanonicalTraits es el orden fijo usado para iterar, desempatar y serializar.
var CanonicalTraits = []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

var traitAliases = map[string]Trait{
	"openness":          Openness,
	"o":                 Openness,
	"conscientiousness": Conscientiousness,
	"c":                 Conscientiousness,
	"extraversion":      Extraversion,
	"extroversion":      Extraversion,
	"e":                 Extraversion,
	"agreeableness":     Agreeableness,
	"a":                 Agreeableness,
	"neuroticism":       Neuroticism,
	"n":                 Neuroticism,
}

// ParseTrait acepta el nombre canonico o la inicial, sin distinguir mayusculas.
func ParseTrait(raw string) (Trait, bool) {
	t, ok := traitAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// Valid reports whether t is one of the five canonical traits.
func (t Trait) Valid() bool {
	switch t {
	case Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism:
		return true
	}
	return false
}

// Big5Profile es el vector de rasgos 0-100 consumido por el clasificador de arquetipos.
type Big5Profile struct {
	Openness          int `json:"openness"`          // Creatividad vs. Pragmatismo
	Conscientiousness int `json:"conscientiousness"` // Orden vs. Caos
	Extraversion      int `json:"extraversion"`      // Energía social
	Agreeableness     int `json:"agreeableness"`     // Amabilidad
	Neuroticism       int `json:"neuroticism"`       // Inestabilidad emocional
}

// Get devuelve el valor del rasgo pedido (0 si no es canonico).
func (p Big5Profile) Get(t Trait) int {
	switch t {
	case Openness:
		return p.Openness
	case Conscientiousness:
		return p.Conscientiousness
	case Extraversion:
		return p.Extraversion
	case Agreeableness:
		return p.Agreeableness
	case Neuroticism:
		return p.Neuroticism
	}
	return 0
}

// Range devuelve max-min sobre los cinco rasgos.
func (p Big5Profile) Range() int {
	lo, hi := p.Openness, p.Openness
	for _, t := range CanonicalTraits[1:] {
		v := p.Get(t)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

// Dominant devuelve el rasgo mas alto; los empates se resuelven por orden canonico.
func (p Big5Profile) Dominant() (Trait, int) {
	best, bestVal := Openness, p.Openness
	for _, t := range CanonicalTraits[1:] {
		if v := p.Get(t); v > bestVal {
			best, bestVal = t, v
		}
	}
	return best, bestVal
}

// Vector devuelve los rasgos en orden canonico, listo para pgvector.
func (p Big5Profile) Vector() []float32 {
	out := make([]float32, 0, len(CanonicalTraits))
	for _, t := range CanonicalTraits {
		out = append(out, float32(p.Get(t)))
	}
	return out
}
