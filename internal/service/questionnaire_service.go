package service

import (
	"sort"
	"strings"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
)

// QuestionnaireService expone el banco de items estatico y arma las respuestas para el motor.
type QuestionnaireService struct {
	items []domain.QuestionItem
	byID  map[string]domain.QuestionItem
}

func NewQuestionnaireService() *QuestionnaireService {
	items := defaultQuestionBank()
	byID := make(map[string]domain.QuestionItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &QuestionnaireService{items: items, byID: byID}
}

// Questionnaire devuelve los items del tier; basic solo incluye rasgos.
func (s *QuestionnaireService) Questionnaire(tier domain.Tier) []domain.QuestionItem {
	out := make([]domain.QuestionItem, 0, len(s.items))
	for _, it := range s.items {
		if tier == domain.TierBasic && it.Instrument != "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// BuildResponses cruza las respuestas con el banco, en el orden del banco.
// Ids desconocidos van al final ordenados y sin metadata, asi el normalizador los descarta.
func (s *QuestionnaireService) BuildResponses(answers []domain.Answer) []domain.RawResponse {
	byQuestion := make(map[string]domain.Answer, len(answers))
	for _, a := range answers {
		id := strings.TrimSpace(a.QuestionID)
		if id == "" {
			continue
		}
		byQuestion[id] = a
	}

	out := make([]domain.RawResponse, 0, len(byQuestion))
	used := make(map[string]struct{}, len(byQuestion))
	for _, it := range s.items {
		a, ok := byQuestion[it.ID]
		if !ok {
			continue
		}
		out = append(out, domain.RawResponse{
			QuestionID:     it.ID,
			Trait:          string(it.Trait),
			RawScore:       a.Value,
			ReverseCoded:   it.ReverseCoded,
			ResponseTimeMs: a.ResponseTimeMs,
			Instrument:     it.Instrument,
			Subcategory:    it.Subcategory,
		})
		used[it.ID] = struct{}{}
	}

	var extras []string
	for id := range byQuestion {
		if _, ok := used[id]; !ok {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		a := byQuestion[id]
		out = append(out, domain.RawResponse{QuestionID: id, RawScore: a.Value, ResponseTimeMs: a.ResponseTimeMs})
	}
	return out
}

func defaultQuestionBank() []domain.QuestionItem {
	trait := func(id string, t domain.Trait, reverse bool, text string) domain.QuestionItem {
		return domain.QuestionItem{ID: id, Text: text, Trait: t, ReverseCoded: reverse}
	}
	attention := func(id, sub, text string) domain.QuestionItem {
		return domain.QuestionItem{ID: id, Text: text, Instrument: norms.InstrumentAttention, Subcategory: sub}
	}
	autism := func(id, sub string, reverse bool, text string) domain.QuestionItem {
		return domain.QuestionItem{ID: id, Text: text, Instrument: norms.InstrumentAutism, Subcategory: sub, ReverseCoded: reverse}
	}

	return []domain.QuestionItem{
		trait("o1", domain.Openness, false, "Disfruto explorar ideas no convencionales o abstractas."),
		trait("o2", domain.Openness, true, "Ante algo totalmente nuevo, mi primera reaccion es el rechazo."),
		trait("o3", domain.Openness, false, "Disfruto actividades creativas como escribir, dibujar o pensar teorias nuevas."),
		trait("c1", domain.Conscientiousness, false, "Planifico mi dia con antelacion y sigo mi horario."),
		trait("c2", domain.Conscientiousness, true, "Cuando tengo un objetivo importante dependo del impulso del momento."),
		trait("c3", domain.Conscientiousness, false, "Soy ordenado con mis responsabilidades, finanzas y compromisos."),
		trait("e1", domain.Extraversion, false, "Disfruto ser el centro de atencion en reuniones sociales."),
		trait("e2", domain.Extraversion, true, "Despues de pasar tiempo con mucha gente me siento agotado."),
		trait("e3", domain.Extraversion, false, "Me resulta facil iniciar conversaciones con desconocidos."),
		trait("a1", domain.Agreeableness, false, "Tiendo a ser comprensivo y a perdonar los errores de otros."),
		trait("a2", domain.Agreeableness, true, "En un conflicto prefiero imponer mi punto de vista."),
		trait("a3", domain.Agreeableness, false, "Mantener la armonia en mis relaciones es importante para mi."),
		trait("n1", domain.Neuroticism, false, "Me preocupo con frecuencia por el futuro."),
		trait("n2", domain.Neuroticism, true, "Cuando algo sale mal lo supero rapido."),
		trait("n3", domain.Neuroticism, false, "Experimento cambios intensos de animo con frecuencia."),

		attention("att1", "inattention", "Me cuesta terminar los detalles finales de un proyecto."),
		attention("att2", "executive-function", "Me cuesta ordenar las tareas que requieren organizacion."),
		attention("att3", "inattention", "Olvido citas u obligaciones."),
		attention("att4", "executive-function", "Postergo las tareas que requieren mucho esfuerzo mental."),
		attention("att5", "hyperactivity", "Muevo las manos o los pies cuando tengo que estar sentado mucho tiempo."),
		attention("att6", "impulsivity", "Me siento impulsado a hacer cosas, como si tuviera un motor encendido."),

		autism("aut1", "sensory-sensitivity", false, "Noto pequenos sonidos que otros no perciben."),
		autism("aut2", "attention-to-detail", true, "Me concentro mas en el panorama general que en los detalles."),
		autism("aut3", "routine-preference", true, "Me resulta facil hacer mas de una cosa a la vez."),
		autism("aut4", "routine-preference", true, "Si me interrumpen, retomo rapido lo que estaba haciendo."),
		autism("aut5", "social-communication", true, "Me resulta facil leer entre lineas cuando alguien me habla."),
		autism("aut6", "social-communication", true, "Se darme cuenta si alguien que me escucha se esta aburriendo."),
		autism("aut7", "social-communication", false, "Al leer una historia me cuesta entender las intenciones de los personajes."),
		autism("aut8", "attention-to-detail", false, "Me gusta reunir informacion sobre categorias de cosas."),
		autism("aut9", "social-communication", true, "Me resulta facil saber lo que alguien piensa o siente mirando su cara."),
		autism("aut10", "social-communication", false, "Me cuesta entender las intenciones de las personas."),
	}
}
