package memory

import (
	"sync"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// EmotionCache maps normalized text to its classification. It has no TTL;
// PurgeOldest evicts by insertion order, so re-putting a known text does
// not refresh its position.
type EmotionCache struct {
	mu      sync.Mutex
	entries map[string]domain.Emotion
	order   []string
}

func NewEmotionCache() *EmotionCache {
	return &EmotionCache{
		entries: make(map[string]domain.Emotion),
	}
}

func (c *EmotionCache) Get(text string) (domain.Emotion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[text]
	return e, ok
}

func (c *EmotionCache) Put(text string, emotion domain.Emotion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[text]; !ok {
		c.order = append(c.order, text)
	}
	c.entries[text] = emotion
}

func (c *EmotionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// PurgeOldest removes up to n of the oldest inserted entries and returns
// how many were removed.
func (c *EmotionCache) PurgeOldest(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		return 0
	}
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, text := range c.order[:n] {
		delete(c.entries, text)
	}
	c.order = append([]string(nil), c.order[n:]...)
	return n
}
