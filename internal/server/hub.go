// Package server broadcasts match telemetry to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/game"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// Message types sent to clients.
const (
	MessageBoard  = "board"
	MessageHand   = "hand"
	MessagePrompt = "prompt"
	MessageEvent  = "event"
)

const (
	writeWait       = 10 * time.Second
	clientSendQueue = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the board UI is served from another origin
	},
}

// Message is the JSON envelope pushed to clients.
type Message struct {
	Type     string `json:"type"`
	MatchID  string `json:"match_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Data     any    `json:"data"`
}

type outbound struct {
	// player restricts delivery to that player's clients when set.
	player  string
	payload []byte
}

// Client is one websocket connection. A client that connects with a player
// query parameter also receives that player's hand.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// Hub fans match telemetry out to connected clients. It implements
// game.Observer; publishing never blocks and messages are dropped when the
// hub is backed up.
type Hub struct {
	clients   map[*Client]bool
	broadcast chan outbound
	mu        sync.RWMutex
	matchID   string
	logger    *zap.Logger
}

// NewHub creates a hub whose broadcast queue holds buffer messages.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		clients:   make(map[*Client]bool),
		broadcast: make(chan outbound, buffer),
		logger:    logger.Named("hub"),
	}
}

// SetMatchID tags subsequent messages with a match id.
func (h *Hub) SetMatchID(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.matchID = id
}

// Run delivers queued messages until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.logger.Info("client registered", zap.String("player", c.playerID))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Info("client unregistered", zap.String("player", c.playerID))
	}
}

func (h *Hub) deliver(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if msg.player != "" && c.playerID != msg.player {
			continue
		}
		select {
		case c.send <- msg.payload:
		default:
			close(c.send)
			delete(h.clients, c)
			h.logger.Warn("dropped slow client", zap.String("player", c.playerID))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) publish(typ, player string, private bool, data any) {
	h.mu.RLock()
	matchID := h.matchID
	h.mu.RUnlock()

	payload, err := json.Marshal(Message{Type: typ, MatchID: matchID, PlayerID: player, Data: data})
	if err != nil {
		h.logger.Error("failed to encode message", zap.String("type", typ), zap.Error(err))
		return
	}
	msg := outbound{payload: payload}
	if private {
		msg.player = player
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Debug("broadcast queue full, message dropped", zap.String("type", typ))
	}
}

func (h *Hub) Board(s game.MatchSnapshot) {
	h.publish(MessageBoard, s.ActivePlayer, false, s)
}

func (h *Hub) Hand(hs game.HandSnapshot) {
	h.publish(MessageHand, hs.Player, true, hs)
}

func (h *Hub) Prompt(p game.PromptEcho) {
	h.publish(MessagePrompt, p.Player, false, p)
}

func (h *Hub) Event(e rules.Event) {
	h.publish(MessageEvent, e.PlayerID, false, e)
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:     conn,
		send:     make(chan []byte, clientSendQueue),
		playerID: r.URL.Query().Get("player"),
	}
	h.register(client)

	go client.writePump()
	go client.readPump(h)
}

// readPump only watches for the connection closing; clients do not send
// commands.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
