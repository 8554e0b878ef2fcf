package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawResponse es una respuesta Likert tal como llega del cuestionario.
type RawResponse struct {
	QuestionID     string      `json:"question_id"`
	Trait          string      `json:"trait,omitempty"`
	RawScore       LikertScore `json:"raw_score"`
	ReverseCoded   bool        `json:"reverse_coded"`
	ResponseTimeMs int64       `json:"response_time_ms"`
	Instrument     string      `json:"instrument,omitempty"`
	Subcategory    string      `json:"subcategory,omitempty"`
	Weight         *float64    `json:"weight,omitempty"`
}

// UnmarshalJSON es tolerante por campo: un tipo inesperado deja el campo en su
// valor cero, y una entrada que no es objeto queda vacia, asi el normalizador la
// descarta en vez de rechazar el request completo.
func (r *RawResponse) UnmarshalJSON(b []byte) error {
	*r = RawResponse{}
	var wire struct {
		QuestionID     json.RawMessage `json:"question_id"`
		Trait          json.RawMessage `json:"trait"`
		RawScore       LikertScore     `json:"raw_score"`
		ReverseCoded   json.RawMessage `json:"reverse_coded"`
		ResponseTimeMs json.RawMessage `json:"response_time_ms"`
		Instrument     json.RawMessage `json:"instrument"`
		Subcategory    json.RawMessage `json:"subcategory"`
		Weight         json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil
	}
	r.QuestionID = lenientString(wire.QuestionID)
	r.Trait = lenientString(wire.Trait)
	r.RawScore = wire.RawScore
	r.ReverseCoded = lenientBool(wire.ReverseCoded)
	if f, ok := lenientFloat(wire.ResponseTimeMs); ok && f > 0 {
		r.ResponseTimeMs = int64(math.Round(f))
	}
	r.Instrument = lenientString(wire.Instrument)
	r.Subcategory = lenientString(wire.Subcategory)
	if f, ok := lenientFloat(wire.Weight); ok {
		r.Weight = &f
	}
	return nil
}

// lenientString acepta strings y numeros; cualquier otro tipo da "".
func lenientString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

func lenientFloat(raw json.RawMessage) (float64, bool) {
	var s LikertScore
	if err := s.UnmarshalJSON(raw); err != nil || !s.Set {
		return 0, false
	}
	return s.Value, true
}

func lenientBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		b, _ = strconv.ParseBool(strings.TrimSpace(str))
		return b
	}
	if f, ok := lenientFloat(raw); ok {
		return f != 0
	}
	return false
}

// LikertScore tolera numeros, strings numericos y null. Un valor que no se
// puede interpretar queda sin asignar en vez de romper el decode.
type LikertScore struct {
	Value float64
	Set   bool
}

// Score construye un LikertScore asignado.
func Score(v float64) LikertScore {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LikertScore{}
	}
	return LikertScore{Value: v, Set: true}
}

func (s *LikertScore) UnmarshalJSON(b []byte) error {
	*s = LikertScore{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*s = Score(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err != nil {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
		*s = Score(f)
	}
	return nil
}

func (s LikertScore) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Tier controla que modulos corre el motor.
type Tier string

const (
	TierBasic         Tier = "basic"
	TierStandard      Tier = "standard"
	TierComprehensive Tier = "comprehensive"
)

// ParseTier normaliza el tier; vacio o desconocido cae en standard.
func ParseTier(raw string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierBasic:
		return TierBasic
	case TierComprehensive:
		return TierComprehensive
	}
	return TierStandard
}

// SessionMeta es metadata opcional de la sesion de evaluacion.
type SessionMeta struct {
	Age  *int   `json:"age,omitempty"`
	Tier string `json:"tier,omitempty"`
}

// ScoreRequest es el cuerpo que aceptan la API y el CLI.
type ScoreRequest struct {
	RespondentID string        `json:"respondent_id,omitempty"`
	Meta         SessionMeta   `json:"meta"`
	Responses    []RawResponse `json:"responses"`
}

// IsMinor indica si la edad declarada es menor a 18.
func (m SessionMeta) IsMinor() bool {
	return m.Age != nil && *m.Age > 0 && *m.Age < 18
}
