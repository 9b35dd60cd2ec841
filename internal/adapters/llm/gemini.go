package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

type GeminiConfig struct {
	APIKey string

	// Project and Location select Vertex AI instead of the Gemini API.
	Project  string
	Location string

	ModelName string
}

// NewGeminiClient creates an LLMClient backed by Gemini, either through the
// Gemini API (API key) or Vertex AI (project + location).
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Project != "" && cfg.Location != "" {
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.LLMClient.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	temp := float32(params.Temperature)
	topP := float32(params.TopP)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: int32(params.MaxNewTokens),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", geminiError(ctx, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrProviderError)
	}

	return text, nil
}

func geminiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	code := 0
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	if code == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: gemini: %v", domain.ErrProviderUnavailable, err)
	}
	if code == 0 {
		return transportError(ctx, err)
	}
	return fmt.Errorf("%w: gemini status %d: %v", domain.ErrProviderError, code, err)
}
