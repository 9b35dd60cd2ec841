package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/"

// HuggingFaceClient talks to the Hugging Face Inference API. It serves both
// text generation (domain.LLMClient) and emotion classification
// (domain.EmotionDetector).
type HuggingFaceClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	model        string
	emotionModel string
}

type HuggingFaceOption func(*HuggingFaceClient)

// WithHuggingFaceBaseURL points the client at another inference host.
func WithHuggingFaceBaseURL(url string) HuggingFaceOption {
	return func(c *HuggingFaceClient) {
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		c.baseURL = url
	}
}

func WithHTTPClient(hc *http.Client) HuggingFaceOption {
	return func(c *HuggingFaceClient) { c.httpClient = hc }
}

func NewHuggingFaceClient(apiKey, model, emotionModel string, opts ...HuggingFaceOption) *HuggingFaceClient {
	c := &HuggingFaceClient{
		httpClient:   http.DefaultClient,
		baseURL:      DefaultHuggingFaceURL,
		apiKey:       apiKey,
		model:        model,
		emotionModel: emotionModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGenerateRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Generate implements domain.LLMClient.
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	body, err := c.post(ctx, c.model, hfGenerateRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: params.MaxNewTokens,
			Temperature:  params.Temperature,
			TopP:         params.TopP,
		},
	})
	if err != nil {
		return "", err
	}

	var out []hfGeneration
	if err := json.Unmarshal(body, &out); err != nil {
		return "", providerErrorFromBody(body)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return "", fmt.Errorf("%w: huggingface returned no generated text", domain.ErrProviderError)
	}

	return out[0].GeneratedText, nil
}

// DetectEmotion implements domain.EmotionDetector with a text-classification model.
// The API answers either [[{label,score}...]] or [{label,score}...].
func (c *HuggingFaceClient) DetectEmotion(ctx context.Context, text string) ([]domain.LabelScore, error) {
	body, err := c.post(ctx, c.emotionModel, map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	var nested [][]domain.LabelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, fmt.Errorf("%w: empty classification", domain.ErrProviderError)
		}
		return nested[0], nil
	}

	var flat []domain.LabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, providerErrorFromBody(body)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("%w: empty classification", domain.ErrProviderError)
	}
	return flat, nil
}

func (c *HuggingFaceClient) post(ctx context.Context, model string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding huggingface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building huggingface request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, errorMessage(body, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderError, resp.StatusCode, errorMessage(body, resp.Status))
	}

	return body, nil
}

func providerErrorFromBody(body []byte) error {
	var e hfError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("%w: %s", domain.ErrProviderError, e.Error)
	}
	return fmt.Errorf("%w: malformed payload", domain.ErrProviderError)
}

func errorMessage(body []byte, fallback string) string {
	var e hfError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return fallback
}

// transportError maps a failed round trip to the domain taxonomy.
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderError, err)
}
