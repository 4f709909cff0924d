// Package cache keeps recently recorded charges in memory. It is a warm,
// non-authoritative layer: a miss says nothing about whether the charge exists.
package cache

import (
	"maps"
	"sync"
	"time"

	"tenniscourts/pkg/model"
)

type entry struct {
	charge   model.Charge
	storedAt time.Time
}

type ChargeCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New starts a cache whose entries live for ttl, holding at most maxSize
// charges. When full, the oldest entry is evicted.
func New(ttl time.Duration, maxSize int) *ChargeCache {
	c := newCache(ttl, maxSize, time.Now)
	go c.sweep(sweepInterval(ttl))
	return c
}

func newCache(ttl time.Duration, maxSize int, now func() time.Time) *ChargeCache {
	return &ChargeCache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     now,
		stopCh:  make(chan struct{}),
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/2, time.Second), time.Hour)
}

// Get returns a copy of the cached charge, metadata included.
func (c *ChargeCache) Get(id string) (*model.Charge, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.storedAt) > c.ttl {
		c.mu.Lock()
		if current, still := c.entries[id]; still && current == e {
			delete(c.entries, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	charge := e.charge
	charge.Metadata = maps.Clone(e.charge.Metadata)
	return &charge, true
}

func (c *ChargeCache) Set(charge *model.Charge) {
	if charge == nil || charge.ID == "" || c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[charge.ID]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	stored := *charge
	stored.Metadata = maps.Clone(charge.Metadata)
	c.entries[charge.ID] = &entry{charge: stored, storedAt: c.now()}
}

func (c *ChargeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ChargeCache) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range c.entries {
		if oldestID == "" || e.storedAt.Before(oldest) {
			oldestID, oldest = id, e.storedAt
		}
	}
	delete(c.entries, oldestID)
}

func (c *ChargeCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, id)
		}
	}
}

func (c *ChargeCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

// Stop ends the background sweeper. Safe to call more than once.
func (c *ChargeCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
