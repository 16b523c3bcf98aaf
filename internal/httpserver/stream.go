// internal/httpserver/stream.go
//
// Live event stream for one run over a websocket.
//   - Every event published on the run's bus is forwarded as
//     {"topic": ..., "payload": ...}; the first frame is a "snapshot".
//   - A ticker drives Session.Tick so timer:tick (and expiry) reach the
//     client without it polling.
//   - The stream is read-only; verbs still go through POST /runs/{id}/*.
package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

const topicSnapshot events.Topic = "snapshot"

type streamMsg struct {
	Topic   events.Topic `json:"topic"`
	Payload any          `json:"payload,omitempty"`
}

// streamClient is one websocket subscriber of a run.
type streamClient struct {
	run  *store.Run
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := &streamClient{
		run:  run,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	run.Lock()
	c.enqueue(streamMsg{Topic: topicSnapshot, Payload: run.Session.Snapshot()})
	handle := run.Session.Bus().SubscribeAll(func(e events.Event) {
		c.enqueue(streamMsg{Topic: e.Topic, Payload: e.Payload})
	})
	run.Unlock()

	log.Debug().Str("run", run.ID()).Msg("stream opened")
	go c.readPump()
	go s.tickRun(c)
	c.writePump()

	run.Lock()
	run.Session.Bus().Unsubscribe(handle)
	run.Unlock()
	log.Debug().Str("run", run.ID()).Msg("stream closed")
}

// enqueue never blocks: it runs inside bus delivery, under the run mutex.
func (c *streamClient) enqueue(m streamMsg) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Warn().Err(err).Str("topic", string(m.Topic)).Msg("marshal stream message")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("run", c.run.ID()).Msg("stream buffer full, dropping message")
	}
}

// readPump discards client frames and closes done when the peer goes away.
func (c *streamClient) readPump() {
	defer close(c.done)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("ws read")
			}
			return
		}
	}
}

// writePump writes queued messages and pings until the peer goes away.
func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// tickRun advances the run's timer while the stream is open.
func (s *Server) tickRun(c *streamClient) {
	every := s.cfg.TickInterval
	if every <= 0 {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.run.Lock()
			c.run.Session.Tick(s.clock.Now())
			c.run.Unlock()
		}
	}
}
