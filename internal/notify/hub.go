// Package notify fans structural-change events out to room subscribers.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"drive/internal/metrics"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 64

// Message is one event delivered to a room subscriber
type Message struct {
	Room  string    `json:"room"`
	Event string    `json:"event"`
	Data  any       `json:"data"`
	At    time.Time `json:"at"`
}

// Hub is a concurrency-safe room registry. Publish never blocks: a subscriber
// whose queue is full loses the event.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Subscription]struct{}
	bufferSize int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewHub creates an empty hub. bufferSize <= 0 uses DefaultBufferSize.
func NewHub(bufferSize int, m *metrics.Metrics, logger *slog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		rooms:      make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
		metrics:    m,
		logger:     logger,
	}
}

// Subscription receives the events of one room until Close
type Subscription struct {
	room string
	ch   chan Message
	hub  *Hub
	once sync.Once
}

// C is closed when the subscription is closed
func (s *Subscription) C() <-chan Message { return s.ch }

// Room returns the subscribed room
func (s *Subscription) Room() string { return s.room }

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

// Subscribe registers a new subscriber on room
func (h *Hub) Subscribe(room string) *Subscription {
	sub := &Subscription{
		room: room,
		ch:   make(chan Message, h.bufferSize),
		hub:  h,
	}

	h.mu.Lock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.rooms[room] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	h.metrics.AddSubscribers(1)
	h.logger.Debug("room subscriber added", "room", room)
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	if subs, ok := h.rooms[sub.room]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, sub.room)
		}
	}
	// closing under the write lock keeps Publish from sending on a closed channel
	close(sub.ch)
	h.mu.Unlock()

	h.metrics.AddSubscribers(-1)
	h.logger.Debug("room subscriber removed", "room", sub.room)
}

// Publish delivers an event to every current subscriber of room
func (h *Hub) Publish(room, event string, payload any) {
	msg := Message{Room: room, Event: event, Data: payload, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[room] {
		select {
		case sub.ch <- msg:
		default:
			h.metrics.RecordDropped()
			h.logger.Debug("subscriber queue full, dropping event",
				"room", room,
				"event", event,
			)
		}
	}
}

// Subscribers returns the number of subscribers of room
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close drops every subscription, closing their channels
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Subscription
	for _, subs := range h.rooms {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range all {
		sub.Close()
	}
}
