package bus

import (
	"context"
	"errors"
	"sync"
	"time"

	"tungsten/pkg/components"
	"tungsten/pkg/logger"
)

var (
	// ErrTimeout is returned by WaitFor when nothing matched in time.
	ErrTimeout = components.ErrTimeout
	ErrClosed  = errors.New("interaction hub closed")
)

// Hub fans interactions published by transports out to the sessions waiting
// for them. Interactions nobody waits for are dropped.
type Hub struct {
	mu        sync.Mutex
	waiters   []*waiter
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

type waiter struct {
	match func(*components.Interaction) bool
	ch    chan *components.Interaction
}

func NewHub() *Hub {
	return &Hub{done: make(chan struct{})}
}

// Publish hands it to every waiter whose predicate matches and reports how
// many received it.
func (h *Hub) Publish(it *components.Interaction) int {
	if it == nil {
		return 0
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0
	}
	delivered := 0
	kept := h.waiters[:0]
	for _, w := range h.waiters {
		if matches(w, it) {
			// Buffered with room for exactly one event; never blocks.
			w.ch <- it
			delivered++
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(h.waiters); i++ {
		h.waiters[i] = nil
	}
	h.waiters = kept
	h.mu.Unlock()

	if delivered == 0 {
		logger.DebugCF("bus", "Interaction dropped (no waiter)", map[string]interface{}{
			logger.FieldInteractionID: it.ID,
			logger.FieldMessageID:     it.MessageID,
			logger.FieldCustomID:      it.CustomID,
		})
	}
	return delivered
}

func matches(w *waiter, it *components.Interaction) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("bus", "Recovered panic in interaction predicate", map[string]interface{}{
				"panic": r,
			})
			ok = false
		}
	}()
	return w.match == nil || w.match(it)
}

// WaitFor blocks until an interaction matching match is published, timeout
// elapses, ctx is done or the hub closes.
func (h *Hub) WaitFor(ctx context.Context, match func(*components.Interaction) bool, timeout time.Duration) (*components.Interaction, error) {
	w := &waiter{match: match, ch: make(chan *components.Interaction, 1)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	h.waiters = append(h.waiters, w)
	h.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var err error
	select {
	case it := <-w.ch:
		return it, nil
	case <-expired:
		err = ErrTimeout
	case <-ctx.Done():
		err = ctx.Err()
	case <-h.done:
		err = ErrClosed
	}

	if !h.remove(w) {
		// Publish already took the waiter; its event is in the buffer.
		select {
		case it := <-w.ch:
			return it, nil
		default:
		}
	}
	return nil, err
}

func (h *Hub) remove(target *waiter) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, w := range h.waiters {
		if w == target {
			h.waiters = append(h.waiters[:i], h.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of registered waiters.
func (h *Hub) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.waiters)
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.waiters = nil
		close(h.done)
		h.mu.Unlock()
	})
}
