package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	presenceTTL    = 2 * time.Minute

	guildChannel = "guild_events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type GuildClient struct {
	Hub     *GuildHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	GuildID string
	Limiter *rate.Limiter
}

func (c *GuildClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("websocket unexpected close", zap.Error(err), zap.Uint("user_id", c.UserID))
			}
			break
		}

		// Per-client flood control.
		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			c.Hub.handleChatMessage(c, msg.Data)
		case "typing":
			// Transient, fan out without persisting.
			c.Hub.Publish(c.GuildID, WSMessage{Type: "typing", Data: mustJSON(map[string]interface{}{
				"guildId": c.GuildID,
				"userId":  c.UserID,
			})})
		}
	}
}

func (c *GuildClient) writePump() {
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

			// Drain whatever queued up behind this write.
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

type guildRoom struct {
	clients map[*GuildClient]bool
	mu      sync.RWMutex
}

// GuildHub fans guild chat out to connected members. Cross-instance
// delivery goes through a Redis pub/sub channel, presence lives in
// per-guild Redis sets with a TTL.
type GuildHub struct {
	rooms      map[string]*guildRoom
	roomsMu    sync.RWMutex
	register   chan *GuildClient
	unregister chan *GuildClient
	Redis      *redis.Client
	Guilds     GuildStore
	ctx        context.Context
}

func NewGuildHub(rdb *redis.Client, guilds GuildStore) *GuildHub {
	return &GuildHub{
		rooms:      make(map[string]*guildRoom),
		register:   make(chan *GuildClient),
		unregister: make(chan *GuildClient),
		Redis:      rdb,
		Guilds:     guilds,
		ctx:        context.Background(),
	}
}

type guildEvent struct {
	GuildID string          `json:"guildId"`
	Payload json.RawMessage `json:"payload"`
}

func (h *GuildHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, guildChannel)
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var event guildEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Log.Error("guild pubsub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocalRoom(event.GuildID, event.Payload)
		}
	}()

	heartbeat := time.NewTicker(time.Minute)
	defer heartbeat.Stop()

	for {
		select {
		case client := <-h.register:
			room := h.room(client.GuildID)
			room.mu.Lock()
			room.clients[client] = true
			room.mu.Unlock()
			h.setPresence(client, true)

		case client := <-h.unregister:
			room := h.room(client.GuildID)
			room.mu.Lock()
			if _, ok := room.clients[client]; ok {
				delete(room.clients, client)
				close(client.Send)
			}
			room.mu.Unlock()
			h.setPresence(client, false)

		case <-heartbeat.C:
			h.refreshPresence()
		}
	}
}

func (h *GuildHub) room(guildID string) *guildRoom {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	room, ok := h.rooms[guildID]
	if !ok {
		room = &guildRoom{clients: make(map[*GuildClient]bool)}
		h.rooms[guildID] = room
	}
	return room
}

func presenceKey(guildID string) string {
	return fmt.Sprintf("guild:online:%s", guildID)
}

func (h *GuildHub) setPresence(client *GuildClient, online bool) {
	key := presenceKey(client.GuildID)
	if online {
		pipe := h.Redis.Pipeline()
		pipe.SAdd(h.ctx, key, client.UserID)
		pipe.Expire(h.ctx, key, presenceTTL)
		if _, err := pipe.Exec(h.ctx); err != nil {
			logger.Log.Warn("presence update failed", zap.Error(err))
		}
		return
	}
	if err := h.Redis.SRem(h.ctx, key, client.UserID).Err(); err != nil {
		logger.Log.Warn("presence removal failed", zap.Error(err))
	}
}

func (h *GuildHub) refreshPresence() {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	pipe := h.Redis.Pipeline()
	for guildID, room := range h.rooms {
		room.mu.RLock()
		if len(room.clients) > 0 {
			pipe.Expire(h.ctx, presenceKey(guildID), presenceTTL)
		}
		room.mu.RUnlock()
	}
	pipe.Exec(h.ctx)
}

// Stop closes every connection and clears the presence sets this
// instance contributed to.
func (h *GuildHub) Stop() {
	logger.Log.Info("guild hub stopping, clearing presence")

	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	pipe := h.Redis.Pipeline()
	for guildID, room := range h.rooms {
		room.mu.Lock()
		for client := range room.clients {
			pipe.SRem(h.ctx, presenceKey(guildID), client.UserID)
			close(client.Send)
			delete(room.clients, client)
		}
		room.mu.Unlock()
	}
	pipe.Exec(h.ctx)
}

// OnlineCount reports how many members of a guild hold a live socket,
// across all instances.
func (h *GuildHub) OnlineCount(guildID string) int64 {
	n, err := h.Redis.SCard(h.ctx, presenceKey(guildID)).Result()
	if err != nil {
		return 0
	}
	return n
}

// Publish sends an event to every connected member of the guild, on
// every instance.
func (h *GuildHub) Publish(guildID string, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	event, err := json.Marshal(guildEvent{GuildID: guildID, Payload: payload})
	if err != nil {
		return
	}
	if err := h.Redis.Publish(h.ctx, guildChannel, event).Err(); err != nil {
		logger.Log.Error("guild publish failed", zap.Error(err))
		// Redis down, at least deliver locally.
		h.pushToLocalRoom(guildID, payload)
	}
}

func (h *GuildHub) pushToLocalRoom(guildID string, payload []byte) {
	h.roomsMu.RLock()
	room, ok := h.rooms[guildID]
	h.roomsMu.RUnlock()
	if !ok {
		return
	}

	room.mu.RLock()
	defer room.mu.RUnlock()
	for client := range room.clients {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer, drop the frame rather than block the room.
		}
	}
}

type incomingChat struct {
	Content string `json:"content"`
	ReplyTo string `json:"replyTo"`
}

func (h *GuildHub) handleChatMessage(c *GuildClient, data json.RawMessage) {
	var in incomingChat
	if err := json.Unmarshal(data, &in); err != nil || in.Content == "" {
		return
	}

	msg := &model.GuildMessage{
		GuildID:     c.GuildID,
		UserID:      c.UserID,
		Content:     in.Content,
		MessageType: model.MessageText,
		ReplyTo:     in.ReplyTo,
	}
	if err := h.Guilds.CreateMessage(msg); err != nil {
		logger.Log.Error("guild message persist failed", zap.Error(err))
		return
	}

	h.Publish(c.GuildID, WSMessage{Type: "message", Data: mustJSON(msg)})
}

// ServeWS upgrades the request and attaches the member to the guild
// room. Membership must be checked by the caller.
func (h *GuildHub) ServeWS(w http.ResponseWriter, r *http.Request, userID uint, guildID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &GuildClient{
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		GuildID: guildID,
		Limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
