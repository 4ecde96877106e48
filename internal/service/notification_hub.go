package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	notificationChannel = "notifications"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSEvent is the frame pushed to connected clients.
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub     *NotificationHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter
}

// readPump drains the connection for keepalive. The notification channel is
// push-only; inbound frames beyond the limiter are discarded.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		if !c.Limiter.Allow() {
			continue
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// NotificationHub is the connection registry behind the push channel: each
// user id is a room holding at most one live connection per instance, and the
// redis channel fans events out across instances.
type NotificationHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	Redis      *redis.Client
	ctx        context.Context
}

func NewNotificationHub(rdb *redis.Client) *NotificationHub {
	h := &NotificationHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		Redis:      rdb,
		ctx:        context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *NotificationHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type pubSubEvent struct {
	TargetUser uint            `json:"targetUser"`
	Payload    json.RawMessage `json:"payload"`
}

func (h *NotificationHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, notificationChannel)
	// closing the subscription ends the fan-in goroutine with it
	defer pubsub.Close()
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var ev pubSubEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocalUser(ev.TargetUser, ev.Payload)
		}
	}()

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if old, ok := s.clients[client.UserID]; ok {
				close(old.Send)
			} else {
				monitoring.WSConnectedUsers.Inc()
			}
			s.clients[client.UserID] = client
			s.mu.Unlock()

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if current, ok := s.clients[client.UserID]; ok && current == client {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.WSConnectedUsers.Dec()
			}
			s.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// Stop terminates the Run loop and closes every live connection; called on
// shutdown.
func (h *NotificationHub) Stop() {
	logger.Log.Info("NotificationHub stopping: closing connections...")

	h.stopOnce.Do(func() {
		close(h.done)
	})

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			close(client.Send)
			delete(s.clients, userID)
			closed++
		}
		s.mu.Unlock()
	}

	monitoring.WSConnectedUsers.Set(0)
	logger.Log.Info("NotificationHub stopped", zap.Int("closedConnections", closed))
}

// PushToUser publishes the event on the redis channel so whichever instance
// holds the user's connection delivers it. Fire and forget.
func (h *NotificationHub) PushToUser(userID uint, event WSEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ev := pubSubEvent{
		TargetUser: userID,
		Payload:    payload,
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return h.Redis.Publish(h.ctx, notificationChannel, raw).Err()
}

func (h *NotificationHub) pushToLocalUser(userID uint, payload []byte) {
	s := h.getShard(userID)
	s.mu.RLock()
	if client, ok := s.clients[userID]; ok {
		select {
		case client.Send <- payload:
		default:
		}
	}
	s.mu.RUnlock()
}

func (h *NotificationHub) IsUserConnected(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	_, ok := s.clients[userID]
	s.mu.RUnlock()
	return ok
}

// ServeWs upgrades an authenticated request and joins the user's room.
func ServeWs(hub *NotificationHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
