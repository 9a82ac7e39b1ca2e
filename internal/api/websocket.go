package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 512
	wsSendBuffer = 16
)

// TopicSnapshot carries a full runner.Output: on connect and on every tick.
const TopicSnapshot = "countdown"

// defaultTopics are what a new client receives without subscribing.
var defaultTopics = []string{
	TopicSnapshot,
	string(events.EventMilestoneTransition),
	string(events.EventTargetReached),
	string(events.EventTargetUpdated),
	string(events.EventTargetCleared),
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-site websocket hijacking: only the page we served may connect.
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without an Origin (non-browser clients) and
// browser requests whose Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// WSMessage is a topic-based message sent to clients.
type WSMessage struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// wsClient is a connected websocket client with its subscriptions.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	topics map[string]bool
}

func (c *wsClient) subscribed(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic]
}

func (c *wsClient) setTopics(topics []string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		if on {
			c.topics[t] = true
		} else {
			delete(c.topics, t)
		}
	}
}

// WSManager fans hub events out to websocket clients.
type WSManager struct {
	hub      *events.Hub
	snapshot func() runner.Output
	logger   *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]bool
}

// NewWSManager creates a manager. Call Start to begin forwarding events.
func NewWSManager(hub *events.Hub, snapshot func() runner.Output, logger *logging.Logger) *WSManager {
	return &WSManager{
		hub:      hub,
		snapshot: snapshot,
		logger:   logger,
		clients:  make(map[*wsClient]bool),
	}
}

// Start subscribes to the hub and forwards events to subscribed clients
// until ctx is done, then disconnects everyone. The subscription is in
// place when Start returns.
func (m *WSManager) Start(ctx context.Context) {
	ch := m.hub.Subscribe(256)
	go m.run(ctx, ch)
}

func (m *WSManager) run(ctx context.Context, ch <-chan events.Event) {
	defer m.hub.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case e := <-ch:
			topic := string(e.Type)
			if e.Type == events.EventTick {
				topic = TopicSnapshot
			}
			m.Publish(topic, e.Data)
		}
	}
}

// Publish sends a message to all clients subscribed to topic.
// Slow clients miss messages rather than stall the others.
func (m *WSManager) Publish(topic string, data any) {
	msg, err := json.Marshal(WSMessage{Topic: topic, Data: data})
	if err != nil {
		m.logger.Warn("websocket marshal failed", "topic", topic, "error", err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for c := range m.clients {
		if !c.subscribed(topic) {
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *WSManager) register(c *wsClient) {
	m.mu.Lock()
	m.clients[c] = true
	m.mu.Unlock()
}

func (m *WSManager) unregister(c *wsClient) {
	m.mu.Lock()
	if _, ok := m.clients[c]; ok {
		delete(m.clients, c)
		close(c.send)
	}
	m.mu.Unlock()
}

func (m *WSManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		delete(m.clients, c)
		close(c.send)
	}
}

// HandleWebSocket upgrades the connection and streams the countdown.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		m.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		conn:   conn,
		send:   make(chan []byte, wsSendBuffer),
		topics: make(map[string]bool),
	}
	c.setTopics(defaultTopics, true)

	// Late joiners get the current view immediately rather than waiting a tick.
	if first, err := json.Marshal(WSMessage{Topic: TopicSnapshot, Data: m.snapshot()}); err == nil {
		c.send <- first
	}

	m.register(c)
	go c.writePump()
	go c.readPump(m)
}

// readPump handles subscription messages from a client.
func (c *wsClient) readPump(m *WSManager) {
	defer m.unregister(c)

	c.conn.SetReadLimit(wsMaxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Action string   `json:"action"`
			Topics []string `json:"topics"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Action {
		case "subscribe":
			c.setTopics(msg.Topics, true)
		case "unsubscribe":
			c.setTopics(msg.Topics, false)
		}
	}
}

// writePump sends queued messages and keepalive pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
