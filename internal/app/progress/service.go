package progress

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

const (
	topWordsLimit = 10
	minWordLength = 4
)

// Service holds the logic of reading session progress
type Service struct {
	store domain.ConversationStore
}

// NewService creates a progress service from a ConversationStore
func NewService(store domain.ConversationStore) *Service {
	return &Service{
		store: store,
	}
}

// GetProgress summarizes the conversation of id.
func (s *Service) GetProgress(ctx context.Context, id domain.SessionID) (*domain.Progress, error) {
	history, ok := s.store.Get(domain.KeyFor(id))
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	p := Aggregate(history)
	observability.LoggerFromContext(ctx).Info("computed progress",
		"session_id", id,
		"turns", len(history),
		"user_turns", p.SessionCount)
	return p, nil
}

// Aggregate reduces a conversation log to its emotion distribution, most
// frequent user words (longer than three letters, ties in first-seen
// order), user turn count and mean message length.
func Aggregate(history []domain.Turn) *domain.Progress {
	dist := make(map[domain.Emotion]int, len(domain.Emotions))
	for _, e := range domain.Emotions {
		dist[e] = 0
	}

	var (
		words     []domain.WordCount
		index     = make(map[string]int)
		userTurns int
		totalLen  int
	)

	for _, turn := range history {
		totalLen += utf8.RuneCountInString(turn.Content)

		if turn.Emotion != "" {
			if _, known := dist[turn.Emotion]; known {
				dist[turn.Emotion]++
			}
		}

		if turn.Role != domain.RoleUser {
			continue
		}
		userTurns++

		for _, w := range strings.Fields(strings.ToLower(turn.Content)) {
			if utf8.RuneCountInString(w) < minWordLength {
				continue
			}
			if i, seen := index[w]; seen {
				words[i].Count++
				continue
			}
			index[w] = len(words)
			words = append(words, domain.WordCount{Word: w, Count: 1})
		}
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})
	if len(words) > topWordsLimit {
		words = words[:topWordsLimit]
	}
	if words == nil {
		words = []domain.WordCount{}
	}

	avg := 0.0
	if len(history) > 0 {
		avg = float64(totalLen) / float64(len(history))
	}

	return &domain.Progress{
		EmotionDistribution: dist,
		TopWords:            words,
		SessionCount:        userTurns,
		AvgMessageLength:    avg,
	}
}
