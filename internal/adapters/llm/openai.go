package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// OpenAIClient calls any OpenAI-compatible chat completions endpoint
// (OpenAI itself, or the Hugging Face router with OPENAI_BASE_URL).
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

func NewOpenAIClient(apiKey, baseURL, modelName string) *OpenAIClient {
	// Failures resolve to a fallback reply upstream, so the SDK must not retry.
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		modelName: modelName,
	}
}

// Generate implements domain.LLMClient.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(params.MaxNewTokens)),
		Temperature: openai.Float(params.Temperature),
		TopP:        openai.Float(params.TopP),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusServiceUnavailable {
				return "", fmt.Errorf("%w: openai: %v", domain.ErrProviderUnavailable, err)
			}
			return "", fmt.Errorf("%w: openai status %d: %v", domain.ErrProviderError, apiErr.StatusCode, err)
		}
		return "", transportError(ctx, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrProviderError)
	}

	return resp.Choices[0].Message.Content, nil
}
