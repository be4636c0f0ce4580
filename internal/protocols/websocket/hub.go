// Package websocket - Realtime Reading Rooms
// Implements per-book rooms where readers share page turns, chat and
// reactions, plus a redis bridge for personal notifications.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Constants for performance and limits
const (
	maxMessageSize  = 4096
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxRoomSize     = 500
	cleanupInterval = 5 * time.Minute
)

// Room message types
const (
	MsgJoin         = "join"
	MsgLeave        = "leave"
	MsgPageTurn     = "page_turn"
	MsgChat         = "chat"
	MsgReaction     = "reaction"
	MsgPresence     = "presence"
	MsgNotification = "notification"
	MsgError        = "error"
)

// Hub manages all reading rooms and client connections
type Hub struct {
	roomsMu     sync.RWMutex
	rooms       map[string]*Room // book_id -> Room
	redisClient *redis.Client
	stop        chan struct{}
	wg          sync.WaitGroup
}

// Room is the realtime space around one book
type Room struct {
	bookID     string
	capacity   int
	clientsMu  sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	stopped    bool
	stop       chan struct{}
}

// Client represents one reader's WebSocket connection.
// send is never closed; done is closed exactly once by the room loop
// when the client leaves, so concurrent senders (room broadcast, the
// redis notification bridge, readPump error replies) can never hit a
// closed channel.
type Client struct {
	hub        *Hub
	room       *Room
	conn       *websocket.Conn
	send       chan *Message
	done       chan struct{}
	userID     string
	username   string
	bookID     string
	lastActive time.Time
	notifyStop context.CancelFunc
}

// Message is the room wire format. Page is set for page_turn, Content
// for chat, Reaction for reaction messages.
type Message struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	BookID    string    `json:"book_id"`
	Page      int       `json:"page,omitempty"`
	Content   string    `json:"content,omitempty"`
	Reaction  string    `json:"reaction,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new reading room hub. The redis client powers the
// notification bridge and may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	hub := &Hub{
		rooms:       make(map[string]*Room),
		redisClient: redisClient,
		stop:        make(chan struct{}),
	}

	hub.wg.Add(1)
	go hub.cleanupRooms()

	return hub
}

// cleanupRooms periodically removes empty rooms
func (h *Hub) cleanupRooms() {
	defer h.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.roomsMu.Lock()
			for bookID, room := range h.rooms {
				room.clientsMu.RLock()
				clientCount := len(room.clients)
				room.clientsMu.RUnlock()

				if clientCount == 0 {
					close(room.stop)
					delete(h.rooms, bookID)
					logrus.Infof("Cleaned up empty reading room: %s", bookID)
				}
			}
			h.roomsMu.Unlock()

		case <-h.stop:
			return
		}
	}
}

// GetOrCreateRoom returns the existing room for a book or creates one
func (h *Hub) GetOrCreateRoom(bookID string) *Room {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	if room, exists := h.rooms[bookID]; exists {
		return room
	}

	room := &Room{
		bookID:     bookID,
		capacity:   maxRoomSize,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}

	h.rooms[bookID] = room
	go room.run()

	logrus.Infof("Created reading room: %s", bookID)
	return room
}

// run handles room operations
func (r *Room) run() {
	for {
		select {
		case client := <-r.register:
			r.handleRegister(client)
		case client := <-r.unregister:
			r.handleUnregister(client)
		case message := <-r.broadcast:
			r.handleBroadcast(message)
		case <-r.stop:
			r.handleStop()
			return
		}
	}
}

func (r *Room) handleRegister(client *Client) {
	if r.stopped {
		return
	}

	r.clientsMu.Lock()
	if len(r.clients) >= r.capacity {
		r.clientsMu.Unlock()
		logrus.Warnf("Reading room %s full, rejecting client %s", r.bookID, client.userID)
		close(client.done)
		client.conn.Close()
		return
	}
	r.clients[client] = true
	r.clientsMu.Unlock()

	logrus.Debugf("Reader %s joined room %s", client.userID, r.bookID)

	r.broadcastToAll(&Message{
		Type:      MsgJoin,
		UserID:    client.userID,
		Username:  client.username,
		BookID:    r.bookID,
		Timestamp: time.Now(),
	})
}

func (r *Room) handleUnregister(client *Client) {
	if r.stopped {
		return
	}

	r.clientsMu.Lock()
	_, ok := r.clients[client]
	if ok {
		delete(r.clients, client)
		close(client.done)
	}
	r.clientsMu.Unlock()

	if !ok {
		return
	}

	logrus.Debugf("Reader %s left room %s", client.userID, r.bookID)

	r.broadcastToAll(&Message{
		Type:      MsgLeave,
		UserID:    client.userID,
		Username:  client.username,
		BookID:    r.bookID,
		Timestamp: time.Now(),
	})
}

func (r *Room) handleBroadcast(message *Message) {
	if r.stopped {
		return
	}
	r.broadcastToAll(message)
}

func (r *Room) handleStop() {
	r.stopped = true

	r.clientsMu.Lock()
	for client := range r.clients {
		close(client.done)
		client.conn.Close()
	}
	r.clients = nil
	r.clientsMu.Unlock()

	logrus.Infof("Reading room stopped: %s", r.bookID)
}

// broadcastToAll sends a message to every client in the room.
// Delivery is at-most-once: a client with a full send buffer is dropped.
func (r *Room) broadcastToAll(message *Message) {
	r.clientsMu.RLock()
	defer r.clientsMu.RUnlock()

	for client := range r.clients {
		select {
		case client.send <- message:
		default:
			logrus.Warnf("Reader %s send buffer full, disconnecting", client.userID)
			go func(c *Client) { r.unregister <- c }(client)
		}
	}
}

// readPump reads messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.notifyStop != nil {
			c.notifyStop()
		}
		c.room.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.lastActive = time.Now()
		return nil
	})

	for {
		_, messageData, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Warnf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(messageData, &msg); err != nil {
			logrus.Warnf("Invalid message from reader %s: %v", c.userID, err)
			c.sendError("invalid_format", "Invalid JSON format")
			continue
		}

		switch msg.Type {
		case MsgPageTurn:
			if msg.Page < 0 {
				c.sendError("invalid_page", "Page cannot be negative")
				continue
			}
		case MsgChat:
			if len(msg.Content) == 0 || len(msg.Content) > 2000 {
				c.sendError("invalid_content", "Chat message must be 1-2000 characters")
				continue
			}
		case MsgReaction:
			if msg.Reaction == "" {
				c.sendError("invalid_reaction", "Reaction is required")
				continue
			}
		default:
			c.sendError("unknown_type", fmt.Sprintf("Unknown message type %q", msg.Type))
			continue
		}

		// Sender identity always comes from the authenticated connection
		msg.UserID = c.userID
		msg.Username = c.username
		msg.BookID = c.bookID
		msg.Timestamp = time.Now()
		c.lastActive = msg.Timestamp

		c.room.broadcast <- &msg
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(message)
			if err != nil {
				logrus.Errorf("Failed to marshal message: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.room.stop:
			return
		}
	}
}

// sendError sends an error message to the client without blocking
func (c *Client) sendError(code, message string) {
	errMsg := &Message{
		Type:      MsgError,
		UserID:    "system",
		Username:  "System",
		BookID:    c.bookID,
		Content:   fmt.Sprintf("Error [%s]: %s", code, message),
		Timestamp: time.Now(),
	}

	select {
	case c.send <- errMsg:
	default:
	}
}

// ServeClient wires a WebSocket connection into a reading room
func (h *Hub) ServeClient(conn *websocket.Conn, userID, username, bookID string) {
	room := h.GetOrCreateRoom(bookID)

	client := &Client{
		hub:        h,
		room:       room,
		conn:       conn,
		send:       make(chan *Message, 256),
		done:       make(chan struct{}),
		userID:     userID,
		username:   username,
		bookID:     bookID,
		lastActive: time.Now(),
	}

	room.register <- client

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()

	h.bridgeNotifications(client)
}

// bridgeNotifications forwards the user's redis notification channel
// into their socket for as long as the connection lives
func (h *Hub) bridgeNotifications(client *Client) {
	if h.redisClient == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client.notifyStop = cancel

	channel := fmt.Sprintf("user_notifications:%s", client.userID)
	sub := h.redisClient.Subscribe(ctx, channel)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer sub.Close()

		for {
			select {
			case m, ok := <-sub.Channel():
				if !ok {
					return
				}
				msg := &Message{
					Type:      MsgNotification,
					UserID:    client.userID,
					BookID:    client.bookID,
					Content:   m.Payload,
					Timestamp: time.Now(),
				}
				select {
				case client.send <- msg:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RoomClientCount returns the number of readers in a room
func (h *Hub) RoomClientCount(bookID string) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	if room, exists := h.rooms[bookID]; exists {
		room.clientsMu.RLock()
		defer room.clientsMu.RUnlock()
		return len(room.clients)
	}
	return 0
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	logrus.Info("Stopping reading room hub...")

	close(h.stop)

	h.roomsMu.Lock()
	for _, room := range h.rooms {
		close(room.stop)
	}
	h.roomsMu.Unlock()

	h.wg.Wait()
	logrus.Info("Reading room hub stopped")
}
