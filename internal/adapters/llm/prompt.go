package llm

import (
	"strings"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// emotionPrompt asks a generation model for a single emotion word.
func emotionPrompt(text string) string {
	labels := make([]string, 0, len(domain.Emotions))
	for _, e := range domain.Emotions {
		labels = append(labels, string(e))
	}

	return "\nAnalyser le texte suivant et identifier l'émotion dominante.\n" +
		"Retourner UN SEUL mot parmi : " + strings.Join(labels, ", ") + "\n\n" +
		"Texte : " + text + "\n"
}
