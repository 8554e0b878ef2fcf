package norms

// DefaultDocument is the built-in research table used when no NORMS_PATH is configured.
func DefaultDocument() Document {
	return Document{
		Traits: map[string]TraitNorm{
			"openness":          {Mean: 55, StdDev: 15},
			"conscientiousness": {Mean: 52, StdDev: 14},
			"extraversion":      {Mean: 50, StdDev: 16},
			"agreeableness":     {Mean: 58, StdDev: 13},
			"neuroticism":       {Mean: 45, StdDev: 16},
		},
		Instruments: []Instrument{
			{
				ID:       InstrumentAttention,
				Name:     "Adult attention screener (6 items, 0-4 each)",
				ScaleMin: 0,
				ScaleMax: 24,
				Cutoff:   14,
				Bands: []Band{
					{Min: 0, Max: 9, Label: "minimal", Likelihood: "Low", PercentileMin: 1, PercentileMax: 50},
					{Min: 10, Max: 13, Label: "mild", Likelihood: "Moderate", PercentileMin: 51, PercentileMax: 75},
					{Min: 14, Max: 17, Label: "moderate", Likelihood: "High", PercentileMin: 76, PercentileMax: 90},
					{Min: 18, Max: 24, Label: "severe", Likelihood: "Very High", PercentileMin: 91, PercentileMax: 99},
				},
			},
			{
				ID:       InstrumentAutism,
				Name:     "Autism-spectrum quotient short form (10 items, 0-1 each)",
				ScaleMin: 0,
				ScaleMax: 10,
				Cutoff:   6,
				Bands: []Band{
					{Min: 0, Max: 3, Label: "minimal", Likelihood: "Low", PercentileMin: 1, PercentileMax: 50},
					{Min: 4, Max: 5, Label: "below-threshold", Likelihood: "Moderate", PercentileMin: 51, PercentileMax: 75},
					{Min: 6, Max: 7, Label: "threshold", Likelihood: "High", PercentileMin: 76, PercentileMax: 92},
					{Min: 8, Max: 10, Label: "significant", Likelihood: "Very High", PercentileMin: 93, PercentileMax: 99},
				},
			},
		},
		Correlations: []Correlation{
			{A: "openness", B: "conscientiousness", R: 0.05},
			{A: "openness", B: "extraversion", R: 0.30},
			{A: "openness", B: "agreeableness", R: 0.10},
			{A: "openness", B: "neuroticism", R: -0.10},
			{A: "conscientiousness", B: "extraversion", R: 0.15},
			{A: "conscientiousness", B: "agreeableness", R: 0.25},
			{A: "conscientiousness", B: "neuroticism", R: -0.35},
			{A: "extraversion", B: "agreeableness", R: 0.15},
			{A: "extraversion", B: "neuroticism", R: -0.25},
			{A: "agreeableness", B: "neuroticism", R: -0.20},
		},
	}
}

// Default builds the built-in table. It panics only if the built-in document is broken.
func Default() *Table {
	t, err := New(DefaultDocument())
	if err != nil {
		panic(err)
	}
	return t
}
