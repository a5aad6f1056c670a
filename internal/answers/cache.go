// Package answers keeps an in-memory cache of answered questions so the
// pipeline never pays for the same model call twice in one session.
package answers

import "sync"

// Cache maps exact normalized question text to the answer already produced
// for it. Entries live for the lifetime of the session; the first answer
// stored for a question wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Lookup returns the cached answer for the exact question text.
func (c *Cache) Lookup(question string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	answer, ok := c.entries[question]
	return answer, ok
}

// Store records an answer for a question. An existing entry is kept so a
// late duplicate cannot overwrite what was already shown to the user.
func (c *Cache) Store(question, answer string) {
	if question == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[question]; exists {
		return
	}
	c.entries[question] = answer
}

// Len reports the number of cached questions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
