package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenValidator checks the ?token= query parameter. middleware.PlatformAuth satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans notifications out to every connected socket. Notifications come
// from the Redis channel (when a client is given) or directly through Emit.
type Hub struct {
	mu          sync.RWMutex
	clients     map[uuid.UUID]*client
	redisClient *redis.Client
	channel     string
	validator   TokenValidator
	logger      *logrus.Logger
}

// NewHub accepts a nil redisClient (no subscription) and a nil validator (no token check).
func NewHub(redisClient *redis.Client, channel string, validator TokenValidator, logger *logrus.Logger) *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID]*client),
		redisClient: redisClient,
		channel:     channel,
		validator:   validator,
		logger:      logger,
	}
}

// Run relays channel messages until ctx is cancelled, then closes every socket.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	if h.redisClient == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.redisClient.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.Broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.validator != nil {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := h.validator.ValidateToken(tokenStr); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	id := uuid.New()
	h.register(id, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(id uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[id] = &client{conn: conn}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{"conn_id": id, "total": total}).Info("WebSocket connected")
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		h.logger.WithField("conn_id", id).Info("WebSocket disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.wmu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.wmu.Unlock()
		c.conn.Close()
	}
}

// Broadcast writes data to every connected socket. Sockets that fail are dropped.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	targets := make(map[uuid.UUID]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.WithError(err).WithField("conn_id", id).Debug("Dropping websocket after failed write")
			h.unregister(id)
		}
	}
}

// Emit sends a notification straight to local sockets, bypassing Redis.
func (h *Hub) Emit(_ context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	h.Broadcast(data)
	return nil
}

// Count returns the number of connected sockets.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
