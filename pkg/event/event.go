// Package event provides a small synchronous/async event dispatcher. The
// checkout flow fires "order.created" here so the live order feed stays
// decoupled from the purchase transaction.
package event

import (
	"sync"

	"github.com/boofino/boofino/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	// Async listeners run on a bounded pool so bursty dispatch cannot
	// spawn unbounded goroutines.
	pool = workerpool.New(16)
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners on the worker pool and
// returns without waiting for them. When the pool is saturated the handler
// runs synchronously instead of being dropped.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h := h
		if err := pool.Submit(func() { h(payload) }); err != nil {
			h(payload)
		}
	}
}

// ListenerCount reports how many handlers are registered for an event.
func ListenerCount(event string) int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[event])
}

// Flush removes all listeners. Tests use this between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
