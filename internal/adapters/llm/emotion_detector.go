package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// PromptEmotionDetector asks a generation model to name the dominant
// emotion in one word. It backs emotion detection for providers without a
// classification endpoint.
type PromptEmotionDetector struct {
	llm domain.LLMClient
}

func NewPromptEmotionDetector(llm domain.LLMClient) *PromptEmotionDetector {
	return &PromptEmotionDetector{llm: llm}
}

var emotionParams = domain.GenerationParams{
	MaxNewTokens: 5,
	Temperature:  0.1,
	TopP:         0.9,
}

// DetectEmotion implements domain.EmotionDetector. The single word answer
// is returned with score 1; mapping it to the local vocabulary is left to
// the classifier.
func (d *PromptEmotionDetector) DetectEmotion(ctx context.Context, text string) ([]domain.LabelScore, error) {
	raw, err := d.llm.Generate(ctx, emotionPrompt(text), emotionParams)
	if err != nil {
		return nil, err
	}

	word := strings.Trim(strings.ToLower(strings.TrimSpace(raw)), ".!?\"' ")
	if fields := strings.Fields(word); len(fields) > 0 {
		word = fields[0]
	}
	if word == "" {
		return nil, fmt.Errorf("%w: empty emotion answer", domain.ErrProviderError)
	}

	return []domain.LabelScore{{Label: word, Score: 1}}, nil
}
