package memory

import (
	"sync"
	"time"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// DefaultResponseTTL is how long a generated reply may be served again.
const DefaultResponseTTL = time.Hour

type responseKey struct {
	session domain.SessionKey
	prompt  string
}

type responseEntry struct {
	value     string
	createdAt time.Time
}

// ResponseCache memoizes replies keyed on the session and the exact prompt
// text. Expired entries stay in the map until DeleteExpired runs, but
// Lookup never serves them.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[responseKey]responseEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResponseCache creates a cache. A nil now defaults to time.Now.
func NewResponseCache(ttl time.Duration, now func() time.Time) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{
		entries: make(map[responseKey]responseEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *ResponseCache) Lookup(key domain.SessionKey, prompt string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[responseKey{session: key, prompt: prompt}]
	if !ok || c.expired(e) {
		return "", false
	}
	return e.value, true
}

// Store overwrites the entry for (key, prompt) and stamps it with the current time.
func (c *ResponseCache) Store(key domain.SessionKey, prompt, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[responseKey{session: key, prompt: prompt}] = responseEntry{
		value:     value,
		createdAt: c.now(),
	}
}

// DeleteExpired purges every expired entry and returns how many were removed.
func (c *ResponseCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResponseCache) expired(e responseEntry) bool {
	return c.now().Sub(e.createdAt) >= c.ttl
}
