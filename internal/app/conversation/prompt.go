package conversation

import (
	"strings"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

const psychologistPreamble = `
[ROLE] Psychologue clinicien expérimenté
[MISSION] Soutien émotionnel et bien-être mental
[STYLE] Professionnel, empathique et bienveillant
[DIRECTIVES] 
- Pose des questions ouvertes
- Valide les sentiments
- Encourage l'introspection
- Évite les diagnostics médicaux
- Réponses de 4-7 phrases
- Utilise un langage simple et accessible
- Favorise l'exploration des émotions
- Offre un soutien non-jugeant
`

const (
	patientPrefix      = "Patient"
	psychologistPrefix = "Psychologue"
)

// BuildPrompt renders the persona preamble followed by the transcript,
// one "<Role>: <content>" line per turn, and a cue for the next reply.
// history must already be trimmed by the store.
func BuildPrompt(history []domain.Turn) string {
	var b strings.Builder
	b.WriteString(psychologistPreamble)
	b.WriteString("\n\n[CONVERSATION]")

	for _, turn := range history {
		prefix := psychologistPrefix
		if turn.Role == domain.RoleUser {
			prefix = patientPrefix
		}
		b.WriteString("\n")
		b.WriteString(prefix)
		b.WriteString(": ")
		b.WriteString(turn.Content)
	}

	b.WriteString("\n\n")
	b.WriteString(psychologistPrefix)
	b.WriteString(":")
	return b.String()
}
