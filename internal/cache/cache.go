// Package cache keeps generated snippets keyed by a hash of the request.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value    string
	storedAt time.Time
}

// Cache is safe for concurrent use. A zero or negative TTL keeps entries forever.
type Cache struct {
	ttl     time.Duration
	entries sync.Map
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Key hashes parts into a stable cache key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return "", false
	}
	e := v.(entry)
	if c.expired(e) {
		c.entries.Delete(key)
		return "", false
	}
	return e.value, true
}

func (c *Cache) Put(key, value string) {
	c.entries.Store(key, entry{value: value, storedAt: c.now()})
}

// Purge drops expired entries and reports how many were removed.
func (c *Cache) Purge() int {
	removed := 0
	c.entries.Range(func(k, v interface{}) bool {
		if c.expired(v.(entry)) {
			c.entries.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}
