package eviction

import (
	"context"
	"sync"
	"time"

	"github.com/PabloGalante/psychologue-api/internal/domain"
	"github.com/PabloGalante/psychologue-api/internal/observability"
)

const (
	DefaultInterval = 30 * time.Second

	// DefaultEmotionLimit is the emotion cache size above which a batch is purged.
	DefaultEmotionLimit = 1000
	DefaultEmotionBatch = 200
)

// Sweeper periodically purges expired replies and caps the emotion cache.
// It is housekeeping only: lookups already refuse expired replies.
type Sweeper struct {
	responses domain.ResponseCache
	emotions  domain.EmotionCache

	interval     time.Duration
	emotionLimit int
	emotionBatch int

	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

type Option func(*Sweeper)

func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithEmotionLimit sets the cap and the number of oldest entries purged
// when the cap is exceeded.
func WithEmotionLimit(limit, batch int) Option {
	return func(s *Sweeper) {
		if limit > 0 && batch > 0 {
			s.emotionLimit = limit
			s.emotionBatch = batch
		}
	}
}

func NewSweeper(responses domain.ResponseCache, emotions domain.EmotionCache, opts ...Option) *Sweeper {
	s := &Sweeper{
		responses:    responses,
		emotions:     emotions,
		interval:     DefaultInterval,
		emotionLimit: DefaultEmotionLimit,
		emotionBatch: DefaultEmotionBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop in the background until ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(sweepCtx)
}

// Stop cancels the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Sweeper) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		close(s.done)
		s.mu.Unlock()
	}()

	log := observability.WithFields("component", "eviction.sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopping")
			return
		case <-ticker.C:
			res := s.Sweep()
			if res.ExpiredResponses > 0 || res.PurgedEmotions > 0 {
				log.Info("sweep completed",
					"expired_responses", res.ExpiredResponses,
					"purged_emotions", res.PurgedEmotions)
			}
		}
	}
}

type Result struct {
	ExpiredResponses int
	PurgedEmotions   int
}

// Sweep performs one pass.
func (s *Sweeper) Sweep() Result {
	var res Result
	res.ExpiredResponses = s.responses.DeleteExpired()
	if s.emotions.Len() > s.emotionLimit {
		res.PurgedEmotions = s.emotions.PurgeOldest(s.emotionBatch)
	}
	return res
}
