package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/PabloGalante/psychologue-api/internal/adapters/http"
	"github.com/PabloGalante/psychologue-api/internal/adapters/llm"
	memstore "github.com/PabloGalante/psychologue-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/psychologue-api/internal/app/conversation"
	"github.com/PabloGalante/psychologue-api/internal/app/emotion"
	"github.com/PabloGalante/psychologue-api/internal/app/eviction"
	"github.com/PabloGalante/psychologue-api/internal/app/progress"
	"github.com/PabloGalante/psychologue-api/internal/config"
	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	observability.Init(cfg.LogLevel)
	logger := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, detector, err := newProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing inference provider: %v", err)
	}

	// Stores: process-local, nothing survives a restart
	sessions := memstore.NewSessionStore()
	responses := memstore.NewResponseCache(memstore.DefaultResponseTTL, nil)
	emotionCache := memstore.NewEmotionCache()

	classifier := emotion.NewClassifier(detector, emotionCache, emotion.WithTimeout(cfg.InferenceTimeout))
	convSvc := conversation.NewService(llmClient, sessions, responses,
		conversation.WithEmotionTagging(classifier),
		conversation.WithTimeout(cfg.InferenceTimeout),
	)
	progressSvc := progress.NewService(sessions)

	sweeper := eviction.NewSweeper(responses, emotionCache, eviction.WithInterval(cfg.SweepInterval))
	sweeper.Start(ctx)
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(convSvc, classifier, progressSvc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("psychologue API listening", "port", cfg.Port, "backend", cfg.Backend, "mock", cfg.UseMockLLM)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	logger.Info("psychologue API stopped")
}

// newProviders builds the generation client and the emotion detector for the
// configured backend. Only Hugging Face has a classification endpoint; the
// other backends answer emotion prompts through the generation model.
func newProviders(ctx context.Context, cfg *config.Config) (domain.LLMClient, domain.EmotionDetector, error) {
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		return llm.NewMockLLM(), nil, nil
	}

	switch cfg.Backend {
	case config.BackendGemini:
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, llm.NewPromptEmotionDetector(client), nil

	case config.BackendOpenAI:
		client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName)
		return client, llm.NewPromptEmotionDetector(client), nil

	default:
		client := llm.NewHuggingFaceClient(cfg.HFAPIKey, cfg.ModelName, cfg.EmotionModel)
		return client, client, nil
	}
}
