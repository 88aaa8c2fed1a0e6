package service

import (
	"context"
	"encoding/json"
	"football_iq_backend/pkg/logger"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	leaderboardChannel = "footballiq:leaderboard:updates"
	liveLeaderboardTop = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub  *LeaderboardHub
	Conn *websocket.Conn
	Send chan []byte
}

// readPump 只负责心跳与断线检测，客户端不需要上行消息
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err))
			}
			return
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
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// LeaderboardHub 实时排行榜推送。配置了 Redis 时通过 pub/sub 在多实例间广播
type LeaderboardHub struct {
	Redis *redis.Client

	clients    map[*Client]bool
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	local      chan []byte
	done       chan struct{}
	stopOnce   sync.Once
}

func NewLeaderboardHub(rdb *redis.Client) *LeaderboardHub {
	return &LeaderboardHub{
		Redis:      rdb,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		local:      make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

func (h *LeaderboardHub) Run(ctx context.Context) {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(ctx, leaderboardChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				h.deliver([]byte(msg.Payload))
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			h.Stop()
			h.closeAll()
			return
		case <-h.done:
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case payload := <-h.local:
			h.deliver(payload)
		}
	}
}

func (h *LeaderboardHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *LeaderboardHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.Send)
	}
}

// deliver 推送给本实例的连接，发送缓冲已满的慢客户端直接跳过
func (h *LeaderboardHub) deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Broadcast 发布最新排行榜。有 Redis 时走 pub/sub，由各实例的订阅方负责本地推送
func (h *LeaderboardHub) Broadcast(ctx context.Context, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Marshal leaderboard message failed", zap.Error(err))
		return
	}
	if h.Redis != nil {
		err := h.Redis.Publish(ctx, leaderboardChannel, payload).Err()
		if err == nil {
			return
		}
		logger.Log.Warn("Redis publish failed, delivering locally", zap.Error(err))
	}
	select {
	case h.local <- payload:
	default:
		logger.Log.Warn("Leaderboard hub backlog full, dropping update")
	}
}

func (h *LeaderboardHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWs 升级连接并先推送一次当前排行榜
func ServeWs(hub *LeaderboardHub, w http.ResponseWriter, r *http.Request, initial *WSMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	if initial != nil {
		if payload, err := json.Marshal(initial); err == nil {
			client.Send <- payload
		}
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
