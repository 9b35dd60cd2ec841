package emotion

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

// minVisibleChars is the shortest input worth classifying.
const minVisibleChars = 3

// DefaultDetectTimeout bounds a single detector call.
const DefaultDetectTimeout = 30 * time.Second

var positiveWords = []string{
	"heureux", "heureuse", "content", "joie", "bien", "super", "génial",
	"merci", "calme", "serein", "soulagé", "espoir", "aime", "fier",
}

var negativeWords = []string{
	"triste", "mal", "déprimé", "seul", "peur", "anxieux", "anxieuse",
	"angoisse", "stress", "colère", "fatigué", "pleure", "inquiet", "perdu",
}

// Classifier labels text with one emotion. It consults the cache, then the
// external detector, and falls back to a lexical heuristic when the
// detector fails. Fallback results are cached like provider results.
type Classifier struct {
	detector domain.EmotionDetector
	cache    domain.EmotionCache
	timeout  time.Duration
}

type Option func(*Classifier)

// WithTimeout bounds each detector call. A timed out call falls back to
// the heuristic.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClassifier creates a Classifier. A nil detector always uses the heuristic.
func NewClassifier(detector domain.EmotionDetector, cache domain.EmotionCache, opts ...Option) *Classifier {
	c := &Classifier{
		detector: detector,
		cache:    cache,
		timeout:  DefaultDetectTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Classify(ctx context.Context, text string) domain.Emotion {
	if visibleChars(text) < minVisibleChars {
		return domain.EmotionNeutral
	}

	key := strings.ToLower(strings.TrimSpace(text))
	if e, ok := c.cache.Get(key); ok {
		return e
	}

	e, err := c.detect(ctx, text)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("emotion detection failed, using lexical fallback", "error", err)
		e = Heuristic(text)
	}

	c.cache.Put(key, e)
	return e
}

func (c *Classifier) detect(ctx context.Context, text string) (domain.Emotion, error) {
	if c.detector == nil {
		return Heuristic(text), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	scores, err := c.detector.DetectEmotion(ctx, text)
	if err != nil {
		return "", err
	}
	if len(scores) == 0 {
		return "", fmt.Errorf("%w: empty classification", domain.ErrProviderError)
	}

	// First-seen label wins ties.
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return domain.ParseEmotion(best.Label), nil
}

// Heuristic counts positive and negative word occurrences (substring,
// case-insensitive) and picks joy, sadness or neutral on a tie.
func Heuristic(text string) domain.Emotion {
	lower := strings.ToLower(text)

	pos := 0
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	neg := 0
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}

	switch {
	case pos > neg:
		return domain.EmotionJoy
	case neg > pos:
		return domain.EmotionSadness
	default:
		return domain.EmotionNeutral
	}
}

func visibleChars(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) && unicode.IsPrint(r) {
			n++
		}
	}
	return n
}
