package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	b   []byte
	exp time.Time
}

// TTLCache is the in-process BytesCache backend, used when Redis is not
// configured. Expired entries are dropped lazily on read and swept whenever
// the map grows past the last sweep's size.
type TTLCache struct {
	mu        sync.RWMutex
	m         map[string]ttlEntry
	sweepSize int
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]ttlEntry), sweepSize: 64}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.b, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = ttlEntry{b: value, exp: exp}
	if len(c.m) > c.sweepSize {
		c.sweep()
		c.sweepSize = len(c.m) * 2
	}
	c.mu.Unlock()
	return nil
}

// sweep removes expired entries. Caller holds the write lock.
func (c *TTLCache) sweep() {
	now := time.Now()
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
}
