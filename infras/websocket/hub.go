package websocket

//go:generate go run go.uber.org/mock/mockgen -source=./hub.go -destination=./mocks/hub_mock.go -package=mocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Hub fans notification payloads out to the live sockets of a user.
type Hub interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
	SendToUser(userID string, payload any) (delivered bool)
	IsOnline(userID string) bool
	Close()
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type hubImpl struct {
	mutex    sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() Hub {
	return &hubImpl{
		clients: map[string]map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the request and pumps messages until the peer goes away.
func (h *hubImpl) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade websocket: %w", err)
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	log.Info().Str("user_id", userID).Msg("websocket connected")

	go h.writePump(c)
	h.readPump(c)

	return nil
}

func (h *hubImpl) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = map[*client]struct{}{}
	}

	h.clients[c.userID][c] = struct{}{}
}

func (h *hubImpl) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		return
	}

	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}

	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// readPump discards inbound frames; it only exists to service control frames and detect closure.
func (h *hubImpl) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()

		log.Info().Str("user_id", c.userID).Msg("websocket disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("websocket read error")
			}

			return
		}
	}
}

func (h *hubImpl) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// SendToUser queues payload on every socket of userID. It reports whether at least one socket accepted it.
func (h *hubImpl) SendToUser(userID string, payload any) bool {
	message, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to marshal websocket payload")

		return false
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	delivered := false

	for c := range h.clients[userID] {
		select {
		case c.send <- message:
			delivered = true
		default:
			log.Warn().Str("user_id", userID).Msg("websocket send buffer full, dropping frame")
		}
	}

	return delivered
}

func (h *hubImpl) IsOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients[userID]) > 0
}

func (h *hubImpl) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}

		delete(h.clients, userID)
	}
}
