// Package realtime pushes donation events to websocket subscribers of a
// campaign.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"crowdfund/internal/logger"
	"crowdfund/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type client struct {
	campaignID string
	conn       *websocket.Conn
	send       chan []byte
}

type message struct {
	campaignID string
	payload    []byte
}

// Hub fans donation events out to per-campaign subscribers
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[string]map[*client]bool
	broadcast  chan message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[string]map[*client]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run processes subscriptions and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.campaignID] == nil {
				h.clients[c.campaignID] = make(map[*client]bool)
			}
			h.clients[c.campaignID][c] = true
			logger.Debug("Live feed subscriber joined campaign %s (%d total)", c.campaignID, len(h.clients[c.campaignID]))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			for c := range h.clients[msg.campaignID] {
				select {
				case c.send <- msg.payload:
				default:
					// slow consumer
					h.remove(c)
				}
			}

		case <-h.done:
			for _, subs := range h.clients {
				for c := range subs {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*client]bool)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	subs := h.clients[c.campaignID]
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.clients, c.campaignID)
	}
}

// Stop shuts the hub down and closes every subscriber
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// PublishDonation implements services.DonationPublisher
func (h *Hub) PublishDonation(event models.DonationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode donation event: %v", err)
		return
	}

	select {
	case h.broadcast <- message{campaignID: event.CampaignID, payload: payload}:
	case <-h.done:
	default:
		logger.Warn("Live feed backlog full, dropping event for %s", event.CampaignID)
	}
}

// Serve upgrades the request and streams events for campaignID
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, campaignID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{campaignID: campaignID, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// readPump only drains control frames so pongs and close frames are seen
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
