package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

// DefaultInferenceTimeout bounds a single generation call.
const DefaultInferenceTimeout = 30 * time.Second

// Classifier tags user turns with an emotion.
type Classifier interface {
	Classify(ctx context.Context, text string) domain.Emotion
}

type Service struct {
	llm       domain.LLMClient
	sessions  domain.ConversationStore
	responses domain.ResponseCache
	emotions  Classifier
	now       func() time.Time
	pick      func(n int) int

	buildPrompt func([]domain.Turn) string
	params      domain.GenerationParams
	timeout     time.Duration
}

type Option func(*Service)

// WithEmotionTagging classifies every user turn before it is appended.
func WithEmotionTagging(c Classifier) Option {
	return func(s *Service) { s.emotions = c }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithGenerationParams(p domain.GenerationParams) Option {
	return func(s *Service) { s.params = p }
}

// WithRandom replaces the source used to pick fallback replies.
func WithRandom(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

func NewService(
	llm domain.LLMClient,
	sessions domain.ConversationStore,
	responses domain.ResponseCache,
	opts ...Option,
) *Service {
	s := &Service{
		llm:         llm,
		sessions:    sessions,
		responses:   responses,
		now:         time.Now,
		pick:        rand.IntN,
		buildPrompt: BuildPrompt,
		params:      domain.DefaultGenerationParams,
		timeout:     DefaultInferenceTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outcome tells how a chat reply was produced.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeCached    Outcome = "cached"
	OutcomeWarmingUp Outcome = "warming_up"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeFallback  Outcome = "fallback"
)

type ChatInput struct {
	SessionID domain.SessionID
	Prompt    string
}

type ChatOutput struct {
	Response string
	Outcome  Outcome
}

// Chat answers one user message. Provider failures never surface as
// errors: they resolve to a warming-up notice or a canned empathetic reply,
// and nothing is cached. A cache hit returns early and leaves the
// conversation log untouched.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	if in.SessionID == "" || strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("%w: sessionId and prompt are required", domain.ErrInvalidInput)
	}

	key := domain.KeyFor(in.SessionID)
	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)

	if reply, ok := s.responses.Lookup(key, in.Prompt); ok {
		log.Info("serving cached reply")
		return &ChatOutput{Response: reply, Outcome: OutcomeCached}, nil
	}

	userTurn := domain.Turn{Role: domain.RoleUser, Content: in.Prompt}
	if s.emotions != nil {
		userTurn.Emotion = s.classify(ctx, in.Prompt)
	}
	s.sessions.Append(key, userTurn)

	return s.respond(ctx, key, in.Prompt, log), nil
}

// classify shares the inference deadline so a stalled detector cannot hold
// the request past it.
func (s *Service) classify(ctx context.Context, text string) domain.Emotion {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.emotions.Classify(ctx, text)
}

// respond runs everything after the user turn is recorded. Any failure
// from here on, including a panic, yields a fallback reply.
func (s *Service) respond(ctx context.Context, key domain.SessionKey, userPrompt string, log *slog.Logger) (out *ChatOutput) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("chat panicked", "panic", fmt.Sprint(r))
			out = &ChatOutput{Response: s.fallbackReply(), Outcome: OutcomeFallback}
		}
	}()

	history, _ := s.sessions.Get(key)
	prompt := s.buildPrompt(history)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	raw, err := s.llm.Generate(callCtx, prompt, s.params)
	if err != nil {
		return s.failed(callCtx, log, err)
	}

	reply := Normalize(raw)
	s.sessions.Append(key, domain.Turn{Role: domain.RoleAssistant, Content: reply})
	s.responses.Store(key, userPrompt, reply)

	log.Info("chat completed",
		"history_len", len(history)+1,
		"elapsed_ms", s.now().Sub(start).Milliseconds())

	return &ChatOutput{Response: reply, Outcome: OutcomeGenerated}
}

func (s *Service) failed(ctx context.Context, log *slog.Logger, err error) *ChatOutput {
	switch {
	case errors.Is(err, domain.ErrProviderUnavailable):
		log.Warn("model warming up", "error", err)
		return &ChatOutput{Response: WarmingUpMessage, Outcome: OutcomeWarmingUp}

	case errors.Is(err, domain.ErrTimeout), errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warn("inference timed out", "timeout", s.timeout.String(), "error", err)
		return &ChatOutput{Response: s.fallbackReply(), Outcome: OutcomeTimedOut}

	default:
		log.Error("inference failed", "error", err)
		return &ChatOutput{Response: s.fallbackReply(), Outcome: OutcomeFallback}
	}
}

// Clear drops the conversation log of id and reports whether one existed.
func (s *Service) Clear(ctx context.Context, id domain.SessionID) bool {
	cleared := s.sessions.Clear(domain.KeyFor(id))
	observability.LoggerFromContext(ctx).Info("clear session", "session_id", id, "cleared", cleared)
	return cleared
}

// History returns the conversation log of id.
func (s *Service) History(ctx context.Context, id domain.SessionID) ([]domain.Turn, error) {
	turns, ok := s.sessions.Get(domain.KeyFor(id))
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return turns, nil
}
