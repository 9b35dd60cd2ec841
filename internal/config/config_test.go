package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/psychologue-api/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "PSY_INFERENCE_BACKEND", "PSY_USE_MOCK_LLM", "PSY_MODEL_NAME",
		"HF_API_KEY", "PSY_EMOTION_MODEL", "GEMINI_API_KEY", "PSY_GCP_PROJECT", "PSY_GCP_LOCATION",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "PSY_INFERENCE_TIMEOUT", "PSY_SWEEP_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_API_KEY", "hf_test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, config.BackendHuggingFace, cfg.Backend)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", cfg.ModelName)
	assert.Equal(t, 30*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.False(t, cfg.UseMockLLM)
}

func TestLoad_MissingTokenFailsFast(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrMissingSecret)
}

func TestLoad_MockNeedsNoToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("PSY_USE_MOCK_LLM", "1")
	t.Setenv("PORT", "8081")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseMockLLM)
	assert.Equal(t, "8081", cfg.Port)
}

func TestLoad_BackendSecrets(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"gemini api key", map[string]string{"PSY_INFERENCE_BACKEND": "gemini", "GEMINI_API_KEY": "k"}, false},
		{"gemini vertex", map[string]string{"PSY_INFERENCE_BACKEND": "gemini", "PSY_GCP_PROJECT": "p", "PSY_GCP_LOCATION": "us-central1"}, false},
		{"gemini missing", map[string]string{"PSY_INFERENCE_BACKEND": "gemini", "PSY_GCP_PROJECT": "p"}, true},
		{"openai", map[string]string{"PSY_INFERENCE_BACKEND": "openai", "OPENAI_API_KEY": "k"}, false},
		{"openai missing", map[string]string{"PSY_INFERENCE_BACKEND": "openai"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrMissingSecret)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_API_KEY", "hf_test")
	t.Setenv("PSY_INFERENCE_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("PSY_INFERENCE_BACKEND", "llama")
	t.Setenv("PSY_USE_MOCK_LLM", "1")

	_, err = config.Load()
	require.Error(t, err)
}
