package watch

import (
	"fmt"
	"sync"
)

// Topic identifies a stream of change notifications.
type Topic string

// BoardTopic is notified on every change to a board document.
func BoardTopic(boardID string) Topic {
	return Topic(fmt.Sprintf("board:%s", boardID))
}

// BoardTasksTopic is notified on every change to any task on a board.
func BoardTasksTopic(boardID string) Topic {
	return Topic(fmt.Sprintf("board:%s:tasks", boardID))
}

// Hub fans change notifications out to subscribers. Notifications carry no
// payload: subscribers re-read the full snapshot so every callback sees
// current state, never a diff.
type Hub struct {
	mu   sync.RWMutex
	subs map[Topic]map[uint64]func()
	next uint64
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[uint64]func())}
}

// Subscribe registers fn for a topic and returns an unsubscribe function.
// Callers must invoke it on teardown; the hub holds the callback until
// then.
func (h *Hub) Subscribe(topic Topic, fn func()) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]func())
	}
	id := h.next
	h.next++
	h.subs[topic][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subs[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subs, topic)
			}
		}
	}
}

// Publish notifies every subscriber of the topic. Callbacks run on their
// own goroutines so a slow subscriber cannot stall the write path.
func (h *Hub) Publish(topic Topic) {
	h.mu.RLock()
	fns := make([]func(), 0, len(h.subs[topic]))
	for _, fn := range h.subs[topic] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		go fn()
	}
}

// Subscribers returns the subscriber count for a topic.
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
