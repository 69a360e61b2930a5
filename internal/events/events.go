// Package events pushes transient UI events (toasts, highlight start and
// clear, navigation notices) to each visitor's open pages over a WebSocket.
package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/logging"
)

// Type names an event kind on the wire.
type Type string

const (
	TypeToast          Type = "toast"
	TypeHighlight      Type = "highlight"
	TypeHighlightClear Type = "highlight_clear"
	TypeNavigate       Type = "navigate"
)

// Toast severities.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindWarning = "warning"
	KindInfo    = "info"
)

// Event is one message on a visitor's stream.
type Event struct {
	Type    Type   `json:"type"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Level   string `json:"level,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Toast builds a toast event.
func Toast(kind, message string) Event {
	return Event{Type: TypeToast, Kind: kind, Message: message}
}

// Publisher delivers events to a visitor.
type Publisher interface {
	Publish(visitor string, ev Event)
}

// bufferSize is the number of undelivered events a subscriber may queue
// before it is dropped.
const bufferSize = 16

type subscriber struct {
	ch chan Event
}

// Hub fans events out to every subscription of a visitor.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: logging.OrNop(logger),
	}
}

// Subscribe registers a new stream for visitor. The returned channel is
// closed when cancel is called, when the hub closes, or when the subscriber
// falls too far behind.
func (h *Hub) Subscribe(visitor string) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, bufferSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	set, ok := h.subs[visitor]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[visitor] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			h.removeLocked(visitor, s)
			h.mu.Unlock()
		})
	}
	return s.ch, cancel
}

// removeLocked detaches s and closes its channel if it is still attached.
func (h *Hub) removeLocked(visitor string, s *subscriber) {
	set, ok := h.subs[visitor]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	close(s.ch)
	if len(set) == 0 {
		delete(h.subs, visitor)
	}
}

// Publish delivers ev to every stream of visitor without blocking. A stream
// whose buffer is full is dropped.
func (h *Hub) Publish(visitor string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[visitor] {
		select {
		case s.ch <- ev:
		default:
			h.logger.Warn("dropping slow event subscriber", zap.String("visitor", visitor))
			h.removeLocked(visitor, s)
		}
	}
}

// Subscribers returns the number of open streams for visitor.
func (h *Hub) Subscribers(visitor string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[visitor])
}

// Close ends every stream. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for visitor, set := range h.subs {
		for s := range set {
			close(s.ch)
		}
		delete(h.subs, visitor)
	}
}
