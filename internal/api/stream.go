package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

// subscriber is one websocket connection fed by the hub.
type subscriber struct {
	conn   *websocket.Conn
	remote string
	send   chan StateDTO
}

// hub fans state updates out to every connected subscriber.
type hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	logger *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{subs: make(map[*subscriber]struct{}), logger: logger}
}

func (h *hub) add(sub *subscriber) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
	h.mu.Unlock()
}

// broadcast queues state for every subscriber. A subscriber whose buffer is
// full is disconnected rather than allowed to stall the simulation.
func (h *hub) broadcast(state StateDTO) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- state:
		default:
			h.logger.Warn("dropping slow stream subscriber", "remote", sub.remote)
			delete(h.subs, sub)
			close(sub.send)
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// closeAll disconnects every subscriber.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// writeLoop sends queued states and keepalive pings until the send channel
// closes or a write fails.
func (sub *subscriber) writeLoop(logger *slog.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()
	for {
		select {
		case state, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sub.conn.WriteJSON(state); err != nil {
				logger.Debug("stream write failed", "error", err)
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("stream ping failed", "error", err)
				return
			}
		}
	}
}

// readLoop discards client messages and returns when the peer goes away.
func (sub *subscriber) readLoop() {
	sub.conn.SetPongHandler(func(string) error { return nil })
	for {
		if _, _, err := sub.conn.NextReader(); err != nil {
			return
		}
	}
}
