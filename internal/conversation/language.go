package conversation

import "strings"

// LanguageDetector guesses the language of one inbound message. Detection
// runs once per message; the session applies the sticky-language rule, so a
// detector may freely return DefaultLanguage when unsure.
type LanguageDetector interface {
	Detect(message string) Language
}

// keywordLanguageDetector is a small heuristic detector. It only reports a
// non-default language on a confident signal, which keeps the sticky rule
// from flapping on short replies like "ok".
type keywordLanguageDetector struct{}

// NewKeywordLanguageDetector returns the built-in heuristic detector.
func NewKeywordLanguageDetector() LanguageDetector {
	return keywordLanguageDetector{}
}

var spanishMarkers = []string{
	"hola", "gracias", "por favor", "buenos días", "buenas tardes",
	"necesito", "quiero", "impuesto", "propiedad", "cuánto", "mañana",
	"sí", "ayuda", "cita", "pagar",
}

func (keywordLanguageDetector) Detect(message string) Language {
	lower := strings.ToLower(message)
	hits := 0
	for _, marker := range spanishMarkers {
		if strings.Contains(lower, marker) {
			hits++
		}
	}
	if hits >= 2 || (hits == 1 && len(strings.Fields(lower)) <= 3) {
		return LanguageSpanish
	}
	return DefaultLanguage
}
