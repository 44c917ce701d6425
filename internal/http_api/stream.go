package http_api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// PriceMessage is one price stream frame.
type PriceMessage struct {
	Type      string           `json:"type"`
	TokenID   string           `json:"token_id"`
	Direction models.Direction `json:"direction"`
	Price     float64          `json:"price"`
	OldPrice  float64          `json:"old_price"`
	Timestamp int64            `json:"timestamp"`
}

// streamHub remembers open connections so shutdown can close them.
type streamHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *streamHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *streamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

func (h *streamHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

// priceStream upgrades to a WebSocket and forwards feed price events until
// the client goes away or the feed stops.
func (s *HTTPServer) priceStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}
	s.stream.add(conn)
	if s.metrics != nil {
		s.metrics.StreamClients.Inc()
		defer s.metrics.StreamClients.Dec()
	}
	defer func() {
		s.stream.remove(conn)
		conn.Close()
	}()

	events, cancel := s.dashboard.Subscribe()
	defer cancel()

	// reader: only pongs and close frames are expected
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(PriceMessage{
				Type:      "price_update",
				TokenID:   ev.TokenID,
				Direction: ev.Direction,
				Price:     ev.Price,
				OldPrice:  ev.OldPrice,
				Timestamp: ev.Timestamp.UnixMilli(),
			}); err != nil {
				s.logger.Debug("Price stream write failed", "error", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
