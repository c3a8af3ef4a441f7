package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send small control messages.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Lane maps are opened from handheld terminals on the warehouse network
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// ID is assigned on connect and never changes.
	ID string

	mu     sync.RWMutex
	device string
	lanes  map[string]bool
}

// BaseMessage is the basic message structure for routing
type BaseMessage struct {
	Type     string   `json:"type"`
	DeviceID string   `json:"deviceId,omitempty"`
	MsgID    string   `json:"msgId,omitempty"`
	Lanes    []string `json:"lanes,omitempty"`
}

// Watches reports whether messages about lane should reach this client.
// A client with no subscription watches every lane.
func (c *Client) Watches(lane string) bool {
	if lane == "" {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lanes) == 0 || c.lanes[lane]
}

// Subscribe limits the client to the given lanes; an empty list means all.
func (c *Client) Subscribe(lanes []string) {
	set := make(map[string]bool, len(lanes))
	for _, l := range lanes {
		if l = strings.TrimSpace(l); l != "" {
			set[l] = true
		}
	}
	c.mu.Lock()
	c.lanes = set
	c.mu.Unlock()
}

// Device is the name the client identified itself with, if any.
func (c *Client) Device() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.device
}

// LaneResolver maps a lane as typed by a client to its canonical name.
type LaneResolver func(string) (string, error)

// handle processes one control message from the peer.
func (c *Client) handle(msg BaseMessage, resolve LaneResolver) {
	ack := map[string]interface{}{"type": "ACK", "msgId": msg.MsgID}

	switch msg.Type {
	case "DEVICE_IDENTIFY":
		c.mu.Lock()
		c.device = msg.DeviceID
		c.mu.Unlock()
		ack["status"] = "connected"

	case "SUBSCRIBE":
		var lanes []string
		for _, l := range msg.Lanes {
			if resolve != nil {
				name, err := resolve(l)
				if err != nil {
					c.hub.SendTo(c.ID, map[string]string{"type": "ERROR", "msgId": msg.MsgID, "error": err.Error()})
					return
				}
				l = name
			}
			lanes = append(lanes, l)
		}
		c.Subscribe(lanes)
		ack["lanes"] = lanes

	case "PING":
		ack["type"] = "PONG"

	default:
		return
	}
	c.hub.SendTo(c.ID, ack)
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump(resolve LaneResolver) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS error: %v", err)
			}
			break
		}

		var msg BaseMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		c.handle(msg, resolve)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and registers the connection with the hub.
// resolve canonicalises lane names from the query string and SUBSCRIBE
// messages and may be nil.
func ServeWs(hub *Hub, resolve LaneResolver, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), ID: "web_" + uuid.New().String()}

	// ?lane=A1&lane=B2 subscribes up front
	var lanes []string
	for _, l := range r.URL.Query()["lane"] {
		if resolve != nil {
			if name, err := resolve(l); err == nil {
				l = name
			}
		}
		lanes = append(lanes, l)
	}
	client.Subscribe(lanes)

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(resolve)
}
