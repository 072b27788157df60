package app

import (
	"sync"

	"sprint-quiz-service/internal/domain"
)

// Hub tracks the set of live connections, independent of player identity: a
// connection subscribes on accept (before any registration) and is removed
// only by its own disconnect path. Each subscriber is a buffered channel
// drained by that connection's writer goroutine.
type Hub struct {
	mu   sync.Mutex
	subs map[chan domain.Leaderboard]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe registers a new connection channel. The caller must invoke the
// returned cancel function on disconnect; cancel is safe to call twice.
func (h *Hub) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers lb to every subscriber present at call time, exactly one
// attempt each. Sends never block: a full subscriber has its stale snapshot
// dropped and replaced, so one stalled client cannot starve the rest.
func (h *Hub) Publish(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- lb:
			default:
			}
		}
	}
}

// Len reports the number of currently subscribed connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
