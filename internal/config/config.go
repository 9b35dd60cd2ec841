package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendHuggingFace Backend = "huggingface"
	BackendGemini      Backend = "gemini"
	BackendOpenAI      Backend = "openai"
)

type Config struct {
	Port     string
	LogLevel string

	Backend    Backend
	ModelName  string
	UseMockLLM bool // true = no provider token needed

	HFAPIKey     string
	EmotionModel string

	GeminiAPIKey string
	GCPProjectID string // set with GCPLocation to use Vertex AI instead of the Gemini API
	GCPLocation  string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	InferenceTimeout time.Duration
	SweepInterval    time.Duration
}

var ErrMissingSecret = errors.New("missing provider secret")

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// Load reads .env (if present) and the environment, and fails when the
// secret required by the selected backend is missing.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Backend:    Backend(getEnv("PSY_INFERENCE_BACKEND", string(BackendHuggingFace))),
		UseMockLLM: getBoolEnv("PSY_USE_MOCK_LLM", false),

		HFAPIKey:     os.Getenv("HF_API_KEY"),
		EmotionModel: getEnv("PSY_EMOTION_MODEL", "j-hartmann/emotion-english-distilroberta-base"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GCPProjectID: os.Getenv("PSY_GCP_PROJECT"),
		GCPLocation:  os.Getenv("PSY_GCP_LOCATION"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	}

	var err error
	if cfg.InferenceTimeout, err = getDurationEnv("PSY_INFERENCE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDurationEnv("PSY_SWEEP_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendHuggingFace:
		cfg.ModelName = getEnv("PSY_MODEL_NAME", "mistralai/Mistral-7B-Instruct-v0.2")
	case BackendGemini:
		cfg.ModelName = getEnv("PSY_MODEL_NAME", "gemini-2.5-flash")
	case BackendOpenAI:
		cfg.ModelName = getEnv("PSY_MODEL_NAME", "gpt-4o-mini")
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}

	if cfg.UseMockLLM {
		return cfg, nil
	}

	switch cfg.Backend {
	case BackendHuggingFace:
		if cfg.HFAPIKey == "" {
			return nil, fmt.Errorf("%w: HF_API_KEY must be set", ErrMissingSecret)
		}
	case BackendGemini:
		vertex := cfg.GCPProjectID != "" && cfg.GCPLocation != ""
		if cfg.GeminiAPIKey == "" && !vertex {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY or PSY_GCP_PROJECT and PSY_GCP_LOCATION must be set", ErrMissingSecret)
		}
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY must be set", ErrMissingSecret)
		}
	}

	return cfg, nil
}
