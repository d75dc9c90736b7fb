package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/duckworthlewis/dlc/server/internal/api"
	"github.com/duckworthlewis/dlc/server/internal/store"
)

// EventBoard names the board message.
const EventBoard = "board"

// Scoreboard clients only listen. A client is dropped when a frame takes
// longer than frameDeadline to send, when nothing (not even a pong) arrives
// for silenceLimit, or when queueDepth boards are waiting on it.
const (
	frameDeadline = 10 * time.Second
	silenceLimit  = time.Minute
	heartbeat     = silenceLimit * 9 / 10
	queueDepth    = 16
	maxInbound    = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin policy belongs to the proxy in front of the server.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string            `json:"event"`
	Data  api.BoardResponse `json:"data"`
}

// Hub manages WebSocket client connections and broadcasts the match board.
type Hub struct {
	store *store.Store
	now   func() time.Time

	// poke and reset are buffered by one; extra signals coalesce.
	poke  chan struct{}
	reset chan time.Duration

	mu       sync.RWMutex
	interval time.Duration
	clients  map[*client]struct{}
}

// client is one scoreboard connection and its queue of encoded boards.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that reads from st and broadcasts every interval.
func New(st *store.Store, interval time.Duration) *Hub {
	return &Hub{
		store:    st,
		now:      time.Now,
		poke:     make(chan struct{}, 1),
		reset:    make(chan time.Duration, 1),
		interval: interval,
		clients:  make(map[*client]struct{}),
	}
}

// Notify asks Run to broadcast now. It never blocks.
func (h *Hub) Notify() {
	select {
	case h.poke <- struct{}{}:
	default:
	}
}

// SetInterval changes the broadcast period of a running hub.
func (h *Hub) SetInterval(d time.Duration) {
	h.mu.Lock()
	same := d == h.interval
	h.interval = d
	h.mu.Unlock()
	if same {
		return
	}
	select {
	case <-h.reset:
	default:
	}
	h.reset <- d
}

// Run broadcasts on every tick and every Notify until ctx is cancelled, then
// closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	h.mu.RLock()
	t := time.NewTicker(h.interval)
	h.mu.RUnlock()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case d := <-h.reset:
			t.Reset(d)
		case <-h.poke:
			h.broadcast()
		case <-t.C:
			h.broadcast()
		}
	}
}

// ServeHTTP upgrades r to a WebSocket, queues the current board for the new
// client and holds the request until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already answered with an HTTP error
	}

	c := &client{conn: conn, send: make(chan []byte, queueDepth)}
	if data, err := h.buildMessage(); err == nil {
		c.send <- data
	}
	h.register(c)
	defer h.unregister(c)
	slog.Debug("ws: scoreboard attached", "remote", r.RemoteAddr, "clients", h.Count())

	go c.push()
	c.listen()
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast() {
	data, err := h.buildMessage()
	if err != nil {
		slog.Error("ws: encode board", "err", err)
		return
	}

	for _, c := range h.snapshot() {
		select {
		case c.send <- data:
		default:
			slog.Warn("ws: scoreboard fell behind, detaching", "remote", c.conn.RemoteAddr().String())
			h.unregister(c)
		}
	}
}

func (h *Hub) snapshot() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) buildMessage() ([]byte, error) {
	return json.Marshal(Message{
		Event: EventBoard,
		Data:  api.BuildBoard(h.store, h.now()),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// push writes queued boards and heartbeats until the queue is closed or a
// write fails.
func (c *client) push() {
	beat := time.NewTicker(heartbeat)
	defer beat.Stop()
	defer c.conn.Close()

	for {
		var err error
		select {
		case msg, open := <-c.send:
			if !open {
				c.frame(websocket.CloseMessage, nil) //nolint:errcheck
				return
			}
			err = c.frame(websocket.TextMessage, msg)
		case <-beat.C:
			err = c.frame(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

func (c *client) frame(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(frameDeadline)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}

// listen discards inbound frames so pongs extend the read deadline. It
// returns once the peer disconnects or stays silent too long.
func (c *client) listen() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInbound)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(silenceLimit))
	}
	extend("") //nolint:errcheck
	c.conn.SetPongHandler(extend)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
