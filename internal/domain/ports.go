package domain

import "context"

// GenerationParams are the sampling parameters forwarded to the model.
type GenerationParams struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// DefaultGenerationParams mirrors the settings the persona was tuned with.
var DefaultGenerationParams = GenerationParams{
	MaxNewTokens: 300,
	Temperature:  0.7,
	TopP:         0.9,
}

// LLMClient generates text from a fully rendered prompt.
// Failures wrap ErrProviderUnavailable, ErrProviderError or ErrTimeout.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// LabelScore is one entry of a classifier's answer.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionDetector is the external emotion classification capability.
type EmotionDetector interface {
	DetectEmotion(ctx context.Context, text string) ([]LabelScore, error)
}

// ConversationStore owns every conversation log.
type ConversationStore interface {
	Append(key SessionKey, turn Turn)
	Get(key SessionKey) ([]Turn, bool)
	Clear(key SessionKey) bool
}

// ResponseCache memoizes generated replies per (session, prompt).
type ResponseCache interface {
	Lookup(key SessionKey, prompt string) (string, bool)
	Store(key SessionKey, prompt, value string)
	DeleteExpired() int
	Len() int
}

// EmotionCache memoizes classifications per normalized text.
type EmotionCache interface {
	Get(text string) (Emotion, bool)
	Put(text string, emotion Emotion)
	Len() int
	PurgeOldest(n int) int
}
