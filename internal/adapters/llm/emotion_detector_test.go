package llm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/psychologue-api/internal/adapters/llm"
	"github.com/PabloGalante/psychologue-api/internal/domain"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestPromptEmotionDetector(t *testing.T) {
	stub := &stubLLM{reply: "  Tristesse.\n"}
	detector := llm.NewPromptEmotionDetector(stub)

	got, err := detector.DetectEmotion(context.Background(), "Je me sens seul")
	require.NoError(t, err)
	assert.Equal(t, []domain.LabelScore{{Label: "tristesse", Score: 1}}, got)
	assert.Contains(t, stub.prompt, "Texte : Je me sens seul")
}

func TestPromptEmotionDetector_Errors(t *testing.T) {
	detector := llm.NewPromptEmotionDetector(&stubLLM{reply: "  "})
	_, err := detector.DetectEmotion(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrProviderError)

	cause := fmt.Errorf("%w: down", domain.ErrProviderUnavailable)
	detector = llm.NewPromptEmotionDetector(&stubLLM{err: cause})
	_, err = detector.DetectEmotion(context.Background(), "x")
	require.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}

func TestMockLLM_EchoesLastPatientLine(t *testing.T) {
	prompt := "[CONVERSATION]\nPatient: premier\nPsychologue: réponse\nPatient: second\n\nPsychologue:"

	got, err := llm.NewMockLLM().Generate(context.Background(), prompt, domain.DefaultGenerationParams)
	require.NoError(t, err)
	assert.Contains(t, got, `"second"`)
	assert.NotContains(t, got, "premier")
}
