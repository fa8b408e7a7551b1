// Package events fans assistant state changes out to connected renderers.
package events

import (
	"sync"
	"time"

	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/internal/model/profile"
)

// Event types.
const (
	TypeMessage = "message"
	TypeTyping  = "typing"
	TypeCleared = "cleared"
	TypeProfile = "profile"
	// TypeSnapshot is sent once to a new connection with the full state.
	TypeSnapshot = "snapshot"
)

// Event is one change notification. Exactly one payload field is set,
// matching Type, except for snapshots which carry Messages and Typing.
type Event struct {
	Type     string               `json:"type"`
	Message  *chat.Message        `json:"message,omitempty"`
	Typing   *bool                `json:"typing,omitempty"`
	Messages []chat.Message       `json:"messages,omitempty"`
	Profile  *profile.UserContext `json:"profile,omitempty"`
	At       time.Time            `json:"at"`
}

// Subscription delivers events until it is cancelled.
type Subscription struct {
	C      <-chan Event
	cancel func()
}

// Cancel stops delivery and closes C. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Hub broadcasts events to subscribers. A subscriber whose buffer is full
// misses the event rather than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	closed bool
}

// NewHub returns a hub giving each subscriber a buffer of the given size.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: make(map[uint64]chan Event), buffer: buffer}
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return &Subscription{C: ch, cancel: func() {
		once.Do(func() { h.remove(id) })
	}}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish stamps ev and delivers it to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many subscriptions are active.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// MessageEvent announces a new transcript message.
func MessageEvent(m chat.Message) Event {
	return Event{Type: TypeMessage, Message: &m}
}

// TypingEvent announces a change of the in-flight indicator.
func TypingEvent(typing bool) Event {
	return Event{Type: TypeTyping, Typing: &typing}
}

// ClearedEvent carries the transcript left after a clear.
func ClearedEvent(messages []chat.Message) Event {
	return Event{Type: TypeCleared, Messages: messages}
}

// ProfileEvent announces a saved user context.
func ProfileEvent(uc profile.UserContext) Event {
	return Event{Type: TypeProfile, Profile: &uc}
}

// SnapshotEvent carries the whole transcript and the typing state.
func SnapshotEvent(messages []chat.Message, typing bool) Event {
	return Event{Type: TypeSnapshot, Messages: messages, Typing: &typing}
}
