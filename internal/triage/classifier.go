// Package triage classifies free-text symptom reports into urgency tiers.
//
// The classifier is a deterministic keyword rule engine: it lower-cases the
// input and scans two static lexicons for substring hits. There is no word
// boundary check — a lexicon phrase inside a longer word still counts. That
// is a known false-positive source inherited from the product rules and is
// pinned by a test rather than fixed.
package triage

import (
	"fmt"
	"strings"

	"salud-chatbot/pkg"
)

const (
	urgentBase         = 0.85
	urgentPerMatch     = 0.05
	urgentIntensity    = 0.05
	urgentCap          = 0.95
	apptBase           = 0.60
	apptPerMatch       = 0.05
	apptIntensity      = 0.15
	apptCap            = 0.85
	selfCareConfidence = 0.70
)

// Classify maps a symptom report to a Verdict. It is a pure function: no
// randomness, no I/O, and it never fails — the empty string falls through
// to the self-care tier.
func Classify(text string) pkg.Verdict {
	normalized := strings.ToLower(text)
	intense := containsAny(normalized, intensityWords)

	if matches := matchAll(normalized, emergencyLexicon); len(matches) > 0 {
		confidence := urgentBase + urgentPerMatch*float64(len(matches))
		if intense {
			confidence += urgentIntensity
		}
		return pkg.Verdict{
			Level:       pkg.LevelUrgent,
			Confidence:  min(urgentCap, confidence),
			Explanation: fmt.Sprintf("Detecté síntomas de emergencia: %s. Necesitas atención inmediata.", nameMatches(matches, 3)),
			Advice: []string{
				"Busca atención médica inmediata",
				"Llama al 123 (emergencias) o ve al hospital más cercano",
				"No conduzcas, pide ayuda para llegar al hospital",
				"Si es posible, que alguien te acompañe",
			},
		}
	}

	if matches := matchAll(normalized, appointmentLexicon); len(matches) > 0 || intense {
		confidence := apptBase + apptPerMatch*float64(len(matches))
		if intense {
			confidence += apptIntensity
		}
		explanation := "Detecté síntomas que requieren evaluación médica"
		if len(matches) > 0 {
			explanation += ": " + nameMatches(matches, 2)
		}
		if intense {
			explanation += " (síntomas intensos)"
		}
		return pkg.Verdict{
			Level:       pkg.LevelAppointment,
			Confidence:  min(apptCap, confidence),
			Explanation: explanation + ".",
			Advice: []string{
				"Programa una cita médica en las próximas 24-48 horas",
				"Ve al centro de salud o consulta con tu médico",
				"Mientras tanto, descansa y mantente hidratado",
				"Si empeora, busca atención inmediata",
			},
		}
	}

	return pkg.Verdict{
		Level:       pkg.LevelSelfCare,
		Confidence:  selfCareConfidence,
		Explanation: "Los síntomas parecen leves y pueden manejarse con autocuidado.",
		Advice: []string{
			"Puedes manejar esto en casa",
			"Descansa, toma mucha agua y come bien",
			"Monitorea tus síntomas",
			"Si empeoran o persisten más de 3 días, consulta a un médico",
		},
	}
}

// ExtraAdvice returns symptom-specific tips to append to a reply. The list
// is empty when no tracked symptom appears in the text.
func ExtraAdvice(text string) []string {
	normalized := strings.ToLower(text)
	var advice []string
	if strings.Contains(normalized, "fiebre") {
		advice = append(advice,
			"Toma la temperatura cada 2 horas",
			"Puedes tomar paracetamol si la fiebre es alta")
	}
	if strings.Contains(normalized, "dolor") {
		advice = append(advice,
			"Considera tomar analgésicos básicos",
			"Descansa en una posición cómoda")
	}
	if strings.Contains(normalized, "tos") {
		advice = append(advice,
			"Toma miel con limón",
			"Mantente hidratado")
	}
	if strings.Contains(normalized, "nausea") || strings.Contains(normalized, "náusea") || strings.Contains(normalized, "vómito") {
		advice = append(advice,
			"Come alimentos suaves como pan o galletas",
			"Toma pequeños sorbos de agua")
	}
	return advice
}

// matchAll returns the distinct lexicon phrases found in the normalized
// text, in lexicon order.
func matchAll(normalized string, lexicon []string) []string {
	var matches []string
	for _, phrase := range lexicon {
		if strings.Contains(normalized, phrase) {
			matches = append(matches, phrase)
		}
	}
	return matches
}

func containsAny(normalized string, words []string) bool {
	for _, w := range words {
		if strings.Contains(normalized, w) {
			return true
		}
	}
	return false
}

// nameMatches joins up to limit matched phrases for an explanation, with an
// indicator when more matched than are shown.
func nameMatches(matches []string, limit int) string {
	if len(matches) <= limit {
		return strings.Join(matches, ", ")
	}
	return strings.Join(matches[:limit], ", ") + " y más síntomas"
}
