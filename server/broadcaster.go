package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Broadcaster pushes the latest snapshot to every websocket client. All
// writes happen on the Run goroutine, which owns the client set.
type Broadcaster struct {
	sim      Simulation
	interval time.Duration

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}

	clients  map[*websocket.Conn]struct{}
	count    atomic.Int32
	lastTick int32
}

// NewBroadcaster creates a broadcaster sending at most once per interval.
func NewBroadcaster(s Simulation, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Broadcaster{
		sim:        s,
		interval:   interval,
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		clients:    make(map[*websocket.Conn]struct{}),
		lastTick:   -1,
	}
}

// Run serves clients until ctx is cancelled, then closes every connection.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer func() {
		ticker.Stop()
		for conn := range b.clients {
			b.remove(conn)
		}
		close(b.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case conn := <-b.register:
			b.clients[conn] = struct{}{}
			b.count.Add(1)
			if data, ok := b.encodeLatest(); ok {
				b.send(conn, data)
			}

		case conn := <-b.unregister:
			b.remove(conn)

		case <-ticker.C:
			snap := b.sim.Latest()
			if snap == nil || snap.Tick == b.lastTick || len(b.clients) == 0 {
				continue
			}
			b.lastTick = snap.Tick
			data, ok := b.encodeLatest()
			if !ok {
				continue
			}
			for conn := range b.clients {
				b.send(conn, data)
			}
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	return int(b.count.Load())
}

func (b *Broadcaster) encodeLatest() ([]byte, bool) {
	snap := b.sim.Latest()
	if snap == nil {
		return nil, false
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("snapshot marshal error", "error", err)
		return nil, false
	}
	return data, true
}

func (b *Broadcaster) send(conn *websocket.Conn, data []byte) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("websocket send error", "remote", conn.RemoteAddr(), "error", err)
		b.remove(conn)
	}
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	if _, ok := b.clients[conn]; !ok {
		return
	}
	delete(b.clients, conn)
	b.count.Add(-1)
	conn.Close()
}

// Handle upgrades the request and reads commands from the client until it
// disconnects.
func (b *Broadcaster) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade error", "error", err)
			return
		}

		select {
		case b.register <- conn:
		case <-b.done:
			conn.Close()
			return
		}

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var cmd Command
			if err := json.Unmarshal(msg, &cmd); err != nil {
				slog.Debug("websocket message parse error", "error", err)
				continue
			}
			if err := cmd.Validate(); err != nil {
				slog.Debug("websocket command rejected", "error", err)
				continue
			}
			b.sim.Enqueue(cmd.Apply)
		}

		select {
		case b.unregister <- conn:
		case <-b.done:
		}
	}
}
