// Package cache provides a small key-value cache used for sessions and hot
// catalog reads. Two drivers exist: "redis" (production) and "memory"
// (tests, or degraded mode when Redis is unreachable).
package cache

import (
	"sync"
	"time"

	"github.com/boofino/boofino/pkg/metrics"
)

// Driver is the backing store contract. Values are stored as JSON bytes.
type Driver interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Del(keys ...string) error
	Name() string
}

var (
	mu     sync.RWMutex
	driver Driver = NewMemoryDriver()
)

// SetDriver installs the active driver. Called once at boot.
func SetDriver(d Driver) {
	mu.Lock()
	driver = d
	mu.Unlock()
}

func active() Driver {
	mu.RLock()
	defer mu.RUnlock()
	return driver
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or decode error.
func Get(key string, dest interface{}) bool {
	d := active()
	raw, ok := d.Get(key)
	if !ok {
		metrics.CacheMisses.WithLabelValues(d.Name()).Inc()
		return false
	}
	if err := unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(d.Name()).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(d.Name()).Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := marshal(value)
	if err != nil {
		return err
	}
	return active().Set(key, raw, ttl)
}

// Del removes one or more keys.
func Del(keys ...string) error {
	return active().Del(keys...)
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}
