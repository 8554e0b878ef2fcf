package domain

import "time"

// WeightedItem es una respuesta normalizada con sus pesos ya calculados.
type WeightedItem struct {
	QuestionID     string  `json:"question_id"`
	Trait          Trait   `json:"trait"`
	RawScore       int     `json:"raw_score"`
	ReverseCoded   bool    `json:"reverse_coded"`
	ResponseTimeMs int64   `json:"response_time_ms"`
	Instrument     string  `json:"instrument,omitempty"`
	Subcategory    string  `json:"subcategory,omitempty"`
	AdjustedScore  int     `json:"adjusted_score"`
	TimeWeight     float64 `json:"time_weight"`
	CombinedWeight float64 `json:"combined_weight"`
	// Imputed marca un puntaje ausente o invalido rellenado con el punto medio.
	Imputed        bool    `json:"imputed,omitempty"`
}

// TraitScore guarda el puntaje 0-100 y cuantos items lo alimentaron.
type TraitScore struct {
	Score int `json:"score"`
	Items int `json:"items"`
}

type TraitScoreSet map[Trait]TraitScore

// Profile aplana el set en un Big5Profile.
func (s TraitScoreSet) Profile() Big5Profile {
	return Big5Profile{
		Openness:          s[Openness].Score,
		Conscientiousness: s[Conscientiousness].Score,
		Extraversion:      s[Extraversion].Score,
		Agreeableness:     s[Agreeableness].Score,
		Neuroticism:       s[Neuroticism].Score,
	}
}

type TimingAnalysis struct {
	AverageMs       float64 `json:"average_ms"`
	RushThresholdMs float64 `json:"rush_threshold_ms"`
	RushedFraction  float64 `json:"rushed_fraction"`
	VarianceMs      float64 `json:"variance_ms"`
	TimedResponses  int     `json:"timed_responses"`
}

// QualityAssessment resume senales de calidad de datos; los patrones son avisos, no errores.
type QualityAssessment struct {
	Consistency  float64        `json:"consistency"`
	Authenticity float64        `json:"authenticity"`
	Confidence   float64        `json:"confidence"`
	Patterns     []string       `json:"patterns"`
	Timing       TimingAnalysis `json:"timing"`
	LongestRun   int            `json:"longest_run"`
	ExtremeRate  float64        `json:"extreme_rate"`
	MidpointRate float64        `json:"midpoint_rate"`
}

type PercentileResult struct {
	Trait      Trait   `json:"trait"`
	ZScore     float64 `json:"z_score"`
	Percentile int     `json:"percentile"`
	Band       string  `json:"band"`
}

// CorrelationMatrix es simetrica con diagonal 1.0.
type CorrelationMatrix map[Trait]map[Trait]float64

// Get devuelve el coeficiente para el par (a, b).
func (m CorrelationMatrix) Get(a, b Trait) float64 {
	row, ok := m[a]
	if !ok {
		return 0
	}
	return row[b]
}

type Archetype struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Strengths       []string `json:"strengths"`
	GrowthEdge      string   `json:"growth_edge"`
	PopulationShare float64  `json:"population_share"`
}

type ClinicalScreeningResult struct {
	Instrument      string         `json:"instrument"`
	HasData         bool           `json:"has_data"`
	RawScore        int            `json:"raw_score"`
	NormalizedScore int            `json:"normalized_score"`
	ScaleMax        int            `json:"scale_max"`
	// Percentile va de 1 a 99 cuando HasData; un resultado sin datos lleva 0.
	Percentile      int            `json:"percentile"`
	SeverityBand    string         `json:"severity_band"`
	Likelihood      string         `json:"likelihood"`
	AboveCutoff     bool           `json:"above_cutoff"`
	SubIndicators   map[string]int `json:"sub_indicators"`
	ItemCount       int            `json:"item_count"`
	Method          string         `json:"method"`
	Note            string         `json:"note,omitempty"`
}

type ConfidenceInterval struct {
	Lower        int `json:"lower"`
	Upper        int `json:"upper"`
	LevelPercent int `json:"level_percent"`
}

type ReliabilityAssessment struct {
	Confidence            float64 `json:"confidence"`
	Reliability           float64 `json:"reliability"`
	QualityConfidence     float64 `json:"quality_confidence"`
	StraightLiningPenalty bool    `json:"straight_lining_penalty"`
}

// ScoringResult es la salida completa de una corrida del motor.
type ScoringResult struct {
	Tier          Tier                         `json:"tier"`
	Traits        TraitScoreSet                `json:"traits"`
	Facets        map[Trait]map[string]int     `json:"facets,omitempty"`
	Quality       QualityAssessment            `json:"quality"`
	Percentiles   []PercentileResult           `json:"percentiles"`
	Correlations  CorrelationMatrix            `json:"correlations"`
	Archetype     Archetype                    `json:"archetype"`
	Clinical      []ClinicalScreeningResult    `json:"clinical"`
	Reliability   ReliabilityAssessment        `json:"reliability"`
	Intervals     map[Trait]ConfidenceInterval `json:"intervals"`
	ResponseCount int                          `json:"response_count"`
	ScoredCount   int                          `json:"scored_count"`
	IgnoredCount  int                          `json:"ignored_count"`
}

// Assessment es una corrida persistida.
type Assessment struct {
	ID             string        `json:"id"`
	RespondentHash string        `json:"respondent_hash"`
	Tier           Tier          `json:"tier"`
	Result         ScoringResult `json:"result"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SimilarAssessment es un vecino por distancia del vector de rasgos.
type SimilarAssessment struct {
	ID        string      `json:"id"`
	Archetype string      `json:"archetype"`
	Profile   Big5Profile `json:"profile"`
	Distance  float64     `json:"distance"`
	CreatedAt time.Time   `json:"created_at"`
}
