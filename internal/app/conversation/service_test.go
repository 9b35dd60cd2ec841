package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/psychologue-api/internal/adapters/llm"
	"github.com/PabloGalante/psychologue-api/internal/adapters/storage/memory"
	"github.com/PabloGalante/psychologue-api/internal/app/conversation"
	"github.com/PabloGalante/psychologue-api/internal/app/emotion"
	"github.com/PabloGalante/psychologue-api/internal/domain"
)

type fakeLLM struct {
	reply   string
	err     error
	block   bool
	panic   bool
	calls   int
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.panic {
		panic("nil map")
	}
	if f.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
	}
	return f.reply, f.err
}

type stalledDetector struct{}

func (stalledDetector) DetectEmotion(ctx context.Context, text string) ([]domain.LabelScore, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixedClassifier domain.Emotion

func (c fixedClassifier) Classify(ctx context.Context, text string) domain.Emotion {
	return domain.Emotion(c)
}

type fixture struct {
	llm       *fakeLLM
	sessions  *memory.SessionStore
	responses *memory.ResponseCache
	svc       *conversation.Service
}

func newFixture(opts ...conversation.Option) *fixture {
	f := &fixture{
		llm:       &fakeLLM{reply: "bonjour.  Comment allez-vous ?"},
		sessions:  memory.NewSessionStore(),
		responses: memory.NewResponseCache(time.Hour, nil),
	}
	opts = append([]conversation.Option{conversation.WithRandom(func(int) int { return 0 })}, opts...)
	f.svc = conversation.NewService(f.llm, f.sessions, f.responses, opts...)
	return f
}

func TestChat_GeneratesNormalizesAndRecords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeGenerated, out.Outcome)
	assert.Equal(t, "Bonjour.\n\nComment allez-vous ?", out.Response)

	history, err := f.svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Content: "Bonjour"},
		{Role: domain.RoleAssistant, Content: "Bonjour.\n\nComment allez-vous ?"},
	}, history)

	require.Len(t, f.llm.prompts, 1)
	assert.Contains(t, f.llm.prompts[0], "Patient: Bonjour\n\nPsychologue:")

	cached, ok := f.responses.Lookup(domain.KeyFor("s1"), "Bonjour")
	require.True(t, ok)
	assert.Equal(t, out.Response, cached)
}

func TestChat_CacheHitSkipsInferenceAndHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)

	out, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeCached, out.Outcome)
	assert.Equal(t, 1, f.llm.calls)

	history, _ := f.svc.History(ctx, "s1")
	assert.Len(t, history, 2)
}

func TestChat_HistoryStaysBounded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: fmt.Sprintf("message %d", i)})
		require.NoError(t, err)

		history, _ := f.svc.History(ctx, "s1")
		require.LessOrEqual(t, len(history), memory.DefaultHistoryLimit)
	}

	history, _ := f.svc.History(ctx, "s1")
	require.Len(t, history, memory.DefaultHistoryLimit)
	assert.Equal(t, "message 20", history[0].Content)
	assert.Equal(t, "message 29", history[len(history)-2].Content)
	assert.Equal(t, domain.RoleAssistant, history[len(history)-1].Role)
}

func TestChat_WarmingUp(t *testing.T) {
	f := newFixture()
	f.llm.err = fmt.Errorf("%w: model loading", domain.ErrProviderUnavailable)
	ctx := context.Background()

	out, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeWarmingUp, out.Outcome)
	assert.Equal(t, conversation.WarmingUpMessage, out.Response)

	history, _ := f.svc.History(ctx, "s1")
	assert.Equal(t, []domain.Turn{{Role: domain.RoleUser, Content: "Bonjour"}}, history)
	assert.Equal(t, 0, f.responses.Len())
}

func TestChat_ProviderErrorFallsBack(t *testing.T) {
	f := newFixture()
	f.llm.err = errors.New("status 500")
	ctx := context.Background()

	out, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeFallback, out.Outcome)
	assert.NotEmpty(t, out.Response)
	assert.NotContains(t, out.Response, "500")
	assert.Equal(t, 0, f.responses.Len())

	// No retry was attempted.
	assert.Equal(t, 1, f.llm.calls)
}

func TestChat_TimeoutFallsBack(t *testing.T) {
	f := newFixture(conversation.WithTimeout(20 * time.Millisecond))
	f.llm.block = true

	out, err := f.svc.Chat(context.Background(), conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeTimedOut, out.Outcome)
	assert.NotEmpty(t, out.Response)
	assert.Equal(t, 0, f.responses.Len())
	assert.Equal(t, 1, f.llm.calls)
}

func TestChat_PanicAfterUserTurnFallsBack(t *testing.T) {
	f := newFixture()
	f.llm.panic = true

	out, err := f.svc.Chat(context.Background(), conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeFallback, out.Outcome)
	assert.Equal(t, 0, f.responses.Len())

	history, _ := f.svc.History(context.Background(), "s1")
	assert.Len(t, history, 1)
}

func TestChat_EmotionTagging(t *testing.T) {
	f := newFixture(conversation.WithEmotionTagging(fixedClassifier(domain.EmotionFear)))

	_, err := f.svc.Chat(context.Background(), conversation.ChatInput{SessionID: "s1", Prompt: "J'ai peur"})
	require.NoError(t, err)

	history, _ := f.svc.History(context.Background(), "s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.EmotionFear, history[0].Emotion)
	assert.Empty(t, history[1].Emotion)
}

func TestChat_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Chat(context.Background(), conversation.ChatInput{SessionID: "", Prompt: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Chat(context.Background(), conversation.ChatInput{SessionID: "s1", Prompt: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.llm.calls)
}

func TestClear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.False(t, f.svc.Clear(ctx, "s1"))

	_, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Bonjour"})
	require.NoError(t, err)

	assert.True(t, f.svc.Clear(ctx, "s1"))
	_, err = f.svc.History(ctx, "s1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestChat_WithMockLLM(t *testing.T) {
	svc := conversation.NewService(llm.NewMockLLM(), memory.NewSessionStore(), memory.NewResponseCache(0, nil))

	out, err := svc.Chat(context.Background(), conversation.ChatInput{SessionID: "s1", Prompt: "Hola"})
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeGenerated, out.Outcome)
	assert.Contains(t, out.Response, `"Hola"`)
	assert.Equal(t, out.Response, conversation.Normalize(out.Response))
}

func TestChat_StalledEmotionDetectorIsBounded(t *testing.T) {
	classifier := emotion.NewClassifier(stalledDetector{}, memory.NewEmotionCache())
	f := newFixture(
		conversation.WithEmotionTagging(classifier),
		conversation.WithTimeout(20*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	out, err := f.svc.Chat(ctx, conversation.ChatInput{SessionID: "s1", Prompt: "Je suis très heureux"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, conversation.OutcomeGenerated, out.Outcome)

	history, err := f.svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.EmotionJoy, history[0].Emotion)
}
