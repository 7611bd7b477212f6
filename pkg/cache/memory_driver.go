package cache

import (
	"sync"
	"time"
)

// MemoryDriver is an in-process cache with TTL eviction. It is the boot-time
// default and the driver used by tests.
type MemoryDriver struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryDriver returns an empty memory cache with a background sweeper.
func NewMemoryDriver() *MemoryDriver {
	d := &MemoryDriver{items: map[string]memoryItem{}}
	go d.sweep()
	return d
}

func (d *MemoryDriver) Name() string { return "memory" }

func (d *MemoryDriver) Get(key string) ([]byte, bool) {
	d.mu.RLock()
	item, ok := d.items[key]
	d.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		d.mu.Lock()
		delete(d.items, key)
		d.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (d *MemoryDriver) Set(key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	d.mu.Lock()
	d.items[key] = item
	d.mu.Unlock()
	return nil
}

func (d *MemoryDriver) Del(keys ...string) error {
	d.mu.Lock()
	for _, k := range keys {
		delete(d.items, k)
	}
	d.mu.Unlock()
	return nil
}

func (d *MemoryDriver) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		d.mu.Lock()
		for k, item := range d.items {
			if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
				delete(d.items, k)
			}
		}
		d.mu.Unlock()
	}
}
