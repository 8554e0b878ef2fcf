// Package norms holds the read-only research table the scoring engine reads:
// per-trait population norms, clinical instrument bands and trait
// correlation priors. A Table never changes after construction; accessors
// hand out copies.
package norms

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"psyscore/internal/domain"
)

const (
	InstrumentAttention = "attention"
	InstrumentAutism    = "autism"
)

var ErrInvalidNorms = errors.New("invalid norms table")

type TraitNorm struct {
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
}

// Band is one interpretation range of a clinical instrument, inclusive on both ends.
type Band struct {
	Min           int    `yaml:"min" json:"min"`
	Max           int    `yaml:"max" json:"max"`
	Label         string `yaml:"label" json:"label"`
	Likelihood    string `yaml:"likelihood" json:"likelihood"`
	PercentileMin int    `yaml:"percentile_min" json:"percentile_min"`
	PercentileMax int    `yaml:"percentile_max" json:"percentile_max"`
}

type Instrument struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	ScaleMin int    `yaml:"scale_min" json:"scale_min"`
	ScaleMax int    `yaml:"scale_max" json:"scale_max"`
	Cutoff   int    `yaml:"cutoff" json:"cutoff"`
	Bands    []Band `yaml:"bands" json:"bands"`
}

// BandFor returns the band containing score.
func (i Instrument) BandFor(score int) (Band, bool) {
	for _, b := range i.Bands {
		if score >= b.Min && score <= b.Max {
			return b, true
		}
	}
	return Band{}, false
}

type Correlation struct {
	A string  `yaml:"a" json:"a"`
	B string  `yaml:"b" json:"b"`
	R float64 `yaml:"r" json:"r"`
}

// Document is the serialized shape of a Table (YAML file, GET /norms).
type Document struct {
	Traits       map[string]TraitNorm `yaml:"traits" json:"traits"`
	Instruments  []Instrument         `yaml:"instruments" json:"instruments"`
	Correlations []Correlation        `yaml:"correlations" json:"correlations"`
}

type pairKey struct {
	a, b domain.Trait
}

func newPairKey(a, b domain.Trait) pairKey {
	if traitIndex(a) > traitIndex(b) {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

func traitIndex(t domain.Trait) int {
	for i, c := range domain.CanonicalTraits {
		if c == t {
			return i
		}
	}
	return len(domain.CanonicalTraits)
}

type Table struct {
	traits       map[domain.Trait]TraitNorm
	instruments  map[string]Instrument
	correlations map[pairKey]float64
}

// New validates doc and builds an immutable Table from a deep copy of it.
func New(doc Document) (*Table, error) {
	t := &Table{
		traits:       make(map[domain.Trait]TraitNorm, len(doc.Traits)),
		instruments:  make(map[string]Instrument, len(doc.Instruments)),
		correlations: make(map[pairKey]float64, len(doc.Correlations)),
	}

	for name, n := range doc.Traits {
		trait, ok := domain.ParseTrait(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown trait %q", ErrInvalidNorms, name)
		}
		if n.StdDev < 0 {
			return nil, fmt.Errorf("%w: negative std_dev for %s", ErrInvalidNorms, trait)
		}
		t.traits[trait] = n
	}

	for _, inst := range doc.Instruments {
		id := strings.ToLower(strings.TrimSpace(inst.ID))
		if id == "" {
			return nil, fmt.Errorf("%w: instrument without id", ErrInvalidNorms)
		}
		if err := validateInstrument(inst); err != nil {
			return nil, fmt.Errorf("%w: instrument %s: %v", ErrInvalidNorms, id, err)
		}
		inst.ID = id
		inst.Bands = append([]Band(nil), inst.Bands...)
		sort.Slice(inst.Bands, func(i, j int) bool { return inst.Bands[i].Min < inst.Bands[j].Min })
		t.instruments[id] = inst
	}

	for _, c := range doc.Correlations {
		a, okA := domain.ParseTrait(c.A)
		b, okB := domain.ParseTrait(c.B)
		if !okA || !okB || a == b {
			return nil, fmt.Errorf("%w: bad correlation pair %s-%s", ErrInvalidNorms, c.A, c.B)
		}
		if c.R < -1 || c.R > 1 {
			return nil, fmt.Errorf("%w: correlation %s-%s out of range", ErrInvalidNorms, a, b)
		}
		t.correlations[newPairKey(a, b)] = c.R
	}

	return t, nil
}

func validateInstrument(inst Instrument) error {
	if inst.ScaleMax <= inst.ScaleMin {
		return fmt.Errorf("scale_max must exceed scale_min")
	}
	bands := append([]Band(nil), inst.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Min < bands[j].Min })
	for i, b := range bands {
		if b.Min > b.Max {
			return fmt.Errorf("band %q has min > max", b.Label)
		}
		if b.Min < inst.ScaleMin || b.Max > inst.ScaleMax {
			return fmt.Errorf("band %q outside scale", b.Label)
		}
		if b.PercentileMin > b.PercentileMax || b.PercentileMin < 0 || b.PercentileMax > 100 {
			return fmt.Errorf("band %q has invalid percentile range", b.Label)
		}
		if i > 0 && b.Min <= bands[i-1].Max {
			return fmt.Errorf("band %q overlaps %q", b.Label, bands[i-1].Label)
		}
	}
	return nil
}

// Parse decodes a YAML norms document.
func Parse(data []byte) (*Table, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode norms yaml: %w", err)
	}
	return New(doc)
}

// Load reads a YAML norms file from disk.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read norms file: %w", err)
	}
	return Parse(data)
}

// Trait returns the population norm for trait. A nil table has no entries.
func (t *Table) Trait(trait domain.Trait) (TraitNorm, bool) {
	if t == nil {
		return TraitNorm{}, false
	}
	n, ok := t.traits[trait]
	return n, ok
}

// Instrument returns a copy of the instrument definition.
func (t *Table) Instrument(id string) (Instrument, bool) {
	if t == nil {
		return Instrument{}, false
	}
	inst, ok := t.instruments[id]
	if !ok {
		return Instrument{}, false
	}
	inst.Bands = append([]Band(nil), inst.Bands...)
	return inst, true
}

// Correlation returns the research prior for the unordered pair (a, b).
func (t *Table) Correlation(a, b domain.Trait) (float64, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t.correlations[newPairKey(a, b)]
	return r, ok
}

// Document returns a deep copy of the table in its serialized shape.
func (t *Table) Document() Document {
	doc := Document{Traits: map[string]TraitNorm{}}
	if t == nil {
		return doc
	}
	for trait, n := range t.traits {
		doc.Traits[string(trait)] = n
	}
	ids := make([]string, 0, len(t.instruments))
	for id := range t.instruments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		inst, _ := t.Instrument(id)
		doc.Instruments = append(doc.Instruments, inst)
	}
	for i, a := range domain.CanonicalTraits {
		for _, b := range domain.CanonicalTraits[i+1:] {
			if r, ok := t.correlations[newPairKey(a, b)]; ok {
				doc.Correlations = append(doc.Correlations, Correlation{A: string(a), B: string(b), R: r})
			}
		}
	}
	return doc
}

// MarshalYAML serializes the table as its Document.
func (t *Table) MarshalYAML() (interface{}, error) {
	return t.Document(), nil
}
