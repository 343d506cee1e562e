// Package events delivers classified failures to registered observers.
package events

import (
	"log/slog"
	"sync"

	"github.com/vietddude/faultline/internal/core/domain"
)

// Listener observes every classification produced by the pipeline.
// Implementations must not synchronously re-enter the pipeline in a way
// that recurses without bound.
type Listener interface {
	OnError(e *domain.CategorizedError)
}

type listenerFunc struct {
	fn func(*domain.CategorizedError)
}

func (l *listenerFunc) OnError(e *domain.CategorizedError) { l.fn(e) }

// ListenerFunc wraps a plain function in a Listener. The returned value
// is a distinct pointer, so it is comparable and can be passed to Remove;
// keep a reference to it if removal is needed later.
func ListenerFunc(fn func(*domain.CategorizedError)) Listener {
	return &listenerFunc{fn: fn}
}

// Hub holds listeners in registration order and notifies them
// synchronously.
type Hub struct {
	mu        sync.Mutex
	listeners []Listener
	logger    *slog.Logger
}

// NewHub creates a hub that logs misbehaving listeners to the given
// logger.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger}
}

// Add registers a listener at the end of the notification order.
func (h *Hub) Add(l Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// Remove deletes the first registered listener equal to l. Unknown
// listeners are ignored.
func (h *Hub) Remove(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, reg := range h.listeners {
		if reg == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Notify invokes every listener in registration order. A panicking
// listener is recovered and logged as a warning; it never stops later
// listeners or propagates outward.
func (h *Hub) Notify(e *domain.CategorizedError) {
	h.mu.Lock()
	snapshot := make([]Listener, len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.Unlock()

	for _, l := range snapshot {
		h.invoke(l, e)
	}
}

func (h *Hub) invoke(l Listener, e *domain.CategorizedError) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Warn("error listener panicked", "panic", r, "code", e.Code)
		}
	}()
	l.OnError(e)
}
