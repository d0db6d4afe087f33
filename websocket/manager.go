package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"blog/models"
	"blog/services"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Manager fans post and comment events out to every connected client. It
// implements services.EventPublisher.
type Manager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			total := len(m.clients)
			m.mu.Unlock()
			log.Printf("✅ WebSocket client registered. Total clients: %d", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			total := len(m.clients)
			m.mu.Unlock()
			log.Printf("❌ WebSocket client unregistered. Total clients: %d", total)

		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(m.clients, client)
				}
			}
			m.mu.Unlock()

		case <-m.done:
			m.mu.Lock()
			for client := range m.clients {
				close(client.send)
				delete(m.clients, client)
			}
			m.mu.Unlock()
			return
		}
	}
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) GetConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) PostCreated(post *models.Post) {
	m.publish("post_created", post)
}

func (m *Manager) PostDeleted(postID primitive.ObjectID) {
	m.publish("post_deleted", map[string]interface{}{"postId": postID.Hex()})
}

func (m *Manager) PostLiked(post *models.Post, userID primitive.ObjectID, liked bool) {
	m.publish("post_liked", map[string]interface{}{
		"postId": post.ID.Hex(),
		"userId": userID.Hex(),
		"liked":  liked,
		"likes":  len(post.Likes),
	})
}

func (m *Manager) CommentCreated(comment *models.Comment) {
	m.publish("comment_created", comment)
}

// publish never blocks the caller: when the hub is backed up the event is
// dropped.
func (m *Manager) publish(eventType string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("❌ Error marshaling WebSocket message: %v", err)
		return
	}

	select {
	case m.broadcast <- msg:
	default:
		log.Printf("⚠️ WebSocket broadcast queue full, dropping %s", eventType)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Authenticator resolves the ?token= query parameter to a caller.
type Authenticator interface {
	Authenticate(token string) (services.Identity, error)
}

func WebSocketHandler(manager *Manager, authn Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			log.Printf("❌ WebSocket connection rejected: no token provided")
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		identity, err := authn.Authenticate(token)
		if err != nil {
			log.Printf("❌ WebSocket connection rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  identity.ID.Hex(),
			send:    make(chan []byte, 256),
			manager: manager,
		}

		// Queue the greeting before registering so it is the first frame.
		welcomeMsg, _ := json.Marshal(map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId":  client.userID,
				"message": "WebSocket connected successfully",
				"time":    time.Now().Unix(),
			},
		})
		client.send <- welcomeMsg

		select {
		case manager.register <- client:
		case <-manager.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.manager.unregister <- c:
		case <-c.manager.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			log.Printf("❌ WebSocket message unmarshal error: %v", err)
			continue
		}

		if data["type"] == "ping" {
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type": "pong",
		"payload": map[string]interface{}{
			"time": time.Now().Unix(),
		},
	})
	if err != nil {
		log.Printf("❌ Error marshaling pong: %v", err)
		return
	}

	// The hub may close send concurrently on shutdown.
	c.manager.mu.RLock()
	defer c.manager.mu.RUnlock()
	if c.manager.clients[c] {
		select {
		case c.send <- msg:
		default:
		}
	}
}
