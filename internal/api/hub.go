/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time notification layer.

    It keeps a registry of connected clients and fans every engine
    notification, log line and state change out to all of them.

    Architecture:
    - Hub: The single manager. It also implements game.Sink, so the engine
      can publish to it directly.
    - Client: Represents one browser connection.
    - ServeWs: Upgrades a GET request to a WebSocket.
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/age-of-sail/internal/game"
)

// Message types sent over the socket.
const (
	MsgWelcome = "welcome" // Payload: full snapshot, sent once on connect
	MsgState   = "state"   // Payload: full snapshot after a successful action
	MsgLog     = "log"     // Payload: game.LogEntry
	MsgEvent   = "event"   // Payload: game.Event
)

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Sender  string `json:"sender"` // Always "system" for engine traffic
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// queue carries broadcasts and membership changes in one order, so a
	// client joins exactly between the messages before and after its welcome.
	queue chan outbound
	done  chan struct{} // Closed when Run returns

	log *slog.Logger
}

// outbound is one item on the hub queue. Exactly one field is set.
type outbound struct {
	message []byte
	join    *Client
	leave   *Client
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		queue:   make(chan outbound, 256),
		clients: make(map[*Client]bool),
		done:    make(chan struct{}),
		log:     logger,
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case out := <-h.queue:
			switch {
			case out.join != nil:
				h.clients[out.join] = true
				h.log.Info("ws client connected", "clients", len(h.clients))

			case out.leave != nil:
				if _, ok := h.clients[out.leave]; ok {
					delete(h.clients, out.leave)
					close(out.leave.send)
					h.log.Info("ws client disconnected", "clients", len(h.clients))
				}

			default:
				for client := range h.clients {
					select {
					case client.send <- out.message:
					default:
						// Slow or dead client.
						close(client.send)
						delete(h.clients, client)
					}
				}
			}
		}
	}
}

var errHubStopped = errors.New("hub stopped")

// enqueue blocks until the hub takes a membership change. It reports false
// once the hub has stopped.
func (h *Hub) enqueue(out outbound) bool {
	select {
	case h.queue <- out:
		return true
	case <-h.done:
		return false
	}
}

// Publish encodes a message and queues it for broadcast. It never blocks:
// when the queue is full the message is dropped.
func (h *Hub) Publish(msgType string, payload any) {
	b, err := json.Marshal(Message{Type: msgType, Payload: payload, Sender: "system"})
	if err != nil {
		h.log.Error("ws marshal failed", "type", msgType, "error", err)
		return
	}
	select {
	case h.queue <- outbound{message: b}:
	default:
		h.log.Warn("ws broadcast queue full, dropping message", "type", msgType)
	}
}

// Log implements game.Sink.
func (h *Hub) Log(e game.LogEntry) { h.Publish(MsgLog, e) }

// Notify implements game.Sink.
func (h *Hub) Notify(e game.Event) { h.Publish(MsgEvent, e) }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and joins the client to the hub with the
// message built by welcome as its first frame. order is held from welcome
// until the join is queued; a publisher holding it in write mode can then
// never slip a broadcast between the welcome and the join.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, order sync.Locker, welcome func() ([]byte, error)) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	if err := hub.join(client, order, welcome); err != nil {
		hub.log.Warn("ws join failed", "error", err)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) join(client *Client, order sync.Locker, welcome func() ([]byte, error)) error {
	order.Lock()
	defer order.Unlock()

	hello, err := welcome()
	if err != nil {
		return err
	}
	client.send <- hello
	if !h.enqueue(outbound{join: client}) {
		return errHubStopped
	}
	return nil
}

// readPump drains inbound frames; clients are listeners only. It exists to
// notice closed connections.
func (c *Client) readPump() {
	defer func() {
		c.hub.enqueue(outbound{leave: c})
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("ws read failed", "error", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
// It exits when c.send is closed.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
