package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"shop-backend-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const writeTimeout = 5 * time.Second

// event is the wire shape pushed to subscribers.
type event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks connected websocket clients and pushes the refreshed product
// set to all of them after a catalog mutation. Connections that fail a
// write are dropped.
type Hub struct {
	upgrader websocket.Upgrader

	// writeMu serializes broadcasts: gorilla allows only one concurrent
	// writer per connection, and every catalog mutation fans out from
	// its own goroutine
	writeMu sync.Mutex

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// the product pages are public, any origin may subscribe
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the peer goes away. Inbound messages are discarded.
func (h *Hub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	logger.Info().Msgf("Live-update client connected: %s", conn.RemoteAddr())

	go h.readLoop(conn)
	return nil
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// PublishProducts sends an "updateProducts" event to every connected
// client.
func (h *Hub) PublishProducts(_ context.Context, products []entity.Product) error {
	msg, err := json.Marshal(event{Event: "updateProducts", Payload: products})
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			logger.Warn().Err(err).Msgf("Dropping live-update client %s", conn.RemoteAddr())
			h.drop(conn)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warn().Err(err).Msgf("Dropping live-update client %s", conn.RemoteAddr())
			h.drop(conn)
		}
	}
	return nil
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
