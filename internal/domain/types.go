package domain

import "strings"

// SessionID is the opaque identifier chosen by the client.
type SessionID string

// SessionKey namespaces a SessionID for one conversation flavor.
type SessionKey string

// professionalSuffix marks the clinical-psychologist persona variant.
const professionalSuffix = "-pro"

// KeyFor returns the store key of the professional conversation for id.
func KeyFor(id SessionID) SessionKey {
	return SessionKey(string(id) + professionalSuffix)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Emotion is one label of the closed emotion vocabulary.
type Emotion string

const (
	EmotionJoy      Emotion = "joie"
	EmotionSadness  Emotion = "tristesse"
	EmotionAnger    Emotion = "colère"
	EmotionFear     Emotion = "peur"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "dégoût"
	EmotionNeutral  Emotion = "neutre"
)

// Emotions lists every label in display order.
var Emotions = []Emotion{
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionDisgust,
	EmotionNeutral,
}

// providerEmotions maps classifier vocabularies (english model labels,
// french labels with or without accents) onto the local vocabulary.
var providerEmotions = map[string]Emotion{
	"joy":       EmotionJoy,
	"happiness": EmotionJoy,
	"joie":      EmotionJoy,
	"sadness":   EmotionSadness,
	"tristesse": EmotionSadness,
	"anger":     EmotionAnger,
	"colère":    EmotionAnger,
	"colere":    EmotionAnger,
	"fear":      EmotionFear,
	"peur":      EmotionFear,
	"surprise":  EmotionSurprise,
	"disgust":   EmotionDisgust,
	"dégoût":    EmotionDisgust,
	"degout":    EmotionDisgust,
	"neutral":   EmotionNeutral,
	"neutre":    EmotionNeutral,
}

// ParseEmotion maps a provider label to the local vocabulary.
// Unknown labels map to EmotionNeutral.
func ParseEmotion(label string) Emotion {
	if e, ok := providerEmotions[strings.ToLower(strings.TrimSpace(label))]; ok {
		return e
	}
	return EmotionNeutral
}
