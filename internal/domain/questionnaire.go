package domain

// QuestionItem es un item del banco de preguntas con su metadata de scoring.
type QuestionItem struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Trait        Trait  `json:"trait,omitempty"`
	ReverseCoded bool   `json:"reverse_coded"`
	Instrument   string `json:"instrument,omitempty"`
	Subcategory  string `json:"subcategory,omitempty"`
}

// Answer es la respuesta del usuario a un item, sin metadata.
type Answer struct {
	QuestionID     string      `json:"question_id"`
	Value          LikertScore `json:"value"`
	ResponseTimeMs int64       `json:"response_time_ms"`
}

// AnswerSheet es el cuerpo de /questionnaire/score.
type AnswerSheet struct {
	Meta    SessionMeta `json:"meta"`
	Answers []Answer    `json:"answers"`
}
