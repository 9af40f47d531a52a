// apps/go-server/internal/httpserver/events.go
//
// Live round updates over websocket.
//   - GET /rounds/{id}/ws upgrades the connection and streams JSON events:
//     {"type":"state","round":{...}} on every join/word/submit and
//     {"type":"results","round":{...}} once, after which the server closes.
//   - Client frames are read and discarded; they only keep the socket alive.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boggle/apps/go-server/internal/game"
)

const (
	eventState   = "state"
	eventResults = "results"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type event struct {
	Type  string        `json:"type"`
	Round game.Snapshot `json:"round"`
}

// subscriber is one websocket connection watching one round.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() { s.once.Do(func() { close(s.send) }) }

// eventHub fans round events out to subscribers. send channels are only
// closed under the write lock after removal, so publish never sends on a
// closed channel.
type eventHub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *eventHub) subscribe(roundID string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[roundID] == nil {
		h.subs[roundID] = make(map[*subscriber]struct{})
	}
	h.subs[roundID][sub] = struct{}{}
	return sub
}

func (h *eventHub) unsubscribe(roundID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[roundID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, roundID)
		}
	}
	sub.close()
}

// publish queues ev for every subscriber of the round. Slow subscribers
// miss events rather than block the caller.
func (h *eventHub) publish(roundID string, ev event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("round", roundID).Msg("encode round event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[roundID] {
		select {
		case sub.send <- msg:
		default:
			log.Warn().Str("round", roundID).Str("type", ev.Type).Msg("dropping event for slow subscriber")
		}
	}
}

// closeRound ends every subscription to the round; queued events are still
// delivered before the close frame.
func (h *eventHub) closeRound(roundID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[roundID] {
		sub.close()
	}
	delete(h.subs, roundID)
}

// subscribers reports how many connections watch a round.
func (h *eventHub) subscribers(roundID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[roundID])
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin
		},
	}
}

// handleEvents streams a round's events to one websocket client.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.round(w, r)
	if !ok {
		return
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := s.events.subscribe(rd.ID, conn)
	snap := rd.Snapshot()
	if snap.Phase == game.Complete {
		// already scored: send the final snapshot once and hang up
		s.events.unsubscribe(rd.ID, sub)
		for range sub.send {
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(event{Type: eventResults, Round: snap})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round complete"))
		_ = conn.Close()
		return
	}
	s.events.publish(rd.ID, event{Type: eventState, Round: snap})

	go writePump(sub)
	readPump(conn)
	s.events.unsubscribe(rd.ID, sub)
}

// writePump owns all writes to the connection.
func writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round complete"))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames until the connection fails or closes.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
