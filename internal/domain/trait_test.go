package domain

import "testing"

func TestParseTrait(t *testing.T) {
	cases := map[string]Trait{
		"Openness":     Openness,
		" c ":          Conscientiousness,
		"extroversion": Extraversion,
		"A":            Agreeableness,
		"NEUROTICISM":  Neuroticism,
	}
	for in, want := range cases {
		got, ok := ParseTrait(in)
		if !ok || got != want {
			t.Fatalf("ParseTrait(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseTrait("honesty"); ok {
		t.Fatal("unknown trait accepted")
	}
}

func TestBig5ProfileHelpers(t *testing.T) {
	p := Big5Profile{Openness: 60, Conscientiousness: 70, Extraversion: 70, Agreeableness: 20, Neuroticism: 50}

	if got := p.Range(); got != 50 {
		t.Fatalf("Range = %d, want 50", got)
	}
	trait, v := p.Dominant()
	if trait != Conscientiousness || v != 70 {
		t.Fatalf("Dominant = %s/%d, want conscientiousness/70 (canonical tie-break)", trait, v)
	}
	vec := p.Vector()
	if len(vec) != 5 || vec[0] != 60 || vec[3] != 20 {
		t.Fatalf("Vector = %v", vec)
	}
}
