package engine

import (
	"sync"
	"time"

	"github.com/pscue/pscue/internal/catalogue"
)

// cache implements the optional completion cache (§3 "Cache entry"):
// fingerprint (command + line) -> (completions, hit count, last access),
// expiring entries after a fixed TTL.
type cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	candidates []catalogue.Candidate
	hits       int
	lastAccess time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

func fingerprint(cmdName, line string) string {
	return cmdName + "\x00" + line
}

func (c *cache) get(cmdName, line string) ([]catalogue.Candidate, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}

	key := fingerprint(cmdName, line)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.lastAccess) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	e.hits++
	e.lastAccess = now
	return e.candidates, true
}

func (c *cache) put(cmdName, line string, candidates []catalogue.Candidate) {
	if c == nil || c.ttl <= 0 {
		return
	}

	key := fingerprint(cmdName, line)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		candidates: candidates,
		lastAccess: c.now(),
	}
}

// Clear removes every cache entry, e.g. after the catalogue is rebuilt in
// a long-running process.
func (c *cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
