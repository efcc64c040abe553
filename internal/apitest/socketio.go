package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// socket is one Engine.IO v4 websocket session.
type socket struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (s *socket) send(text string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

type socketHub struct {
	mu        sync.Mutex
	sockets   map[*socket]struct{}
	joined    chan struct{}
	pingEvery time.Duration
	seq       int
}

func newSocketHub() *socketHub {
	return &socketHub{sockets: map[*socket]struct{}{}, joined: make(chan struct{}, 16), pingEvery: 25 * time.Second}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (b *Backend) serveSocket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
		http.Error(w, "unsupported transport", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h := b.sockets
	s := &socket{conn: conn}

	h.mu.Lock()
	h.seq++
	sid := fmt.Sprintf("sid-%d", h.seq)
	interval := h.pingEvery
	h.mu.Unlock()

	open, _ := json.Marshal(map[string]any{
		"sid":          sid,
		"upgrades":     []string{},
		"pingInterval": interval.Milliseconds(),
		"pingTimeout":  20000,
		"maxPayload":   1000000,
	})
	if err := s.send("0" + string(open)); err != nil {
		_ = conn.Close()
		return
	}

	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if s.send("2") != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(stop)
		h.mu.Lock()
		delete(h.sockets, s)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch text := string(msg); {
		case text == "40" || (len(text) > 2 && text[:2] == "40"):
			_ = s.send(`40{"sid":"` + sid + `-ns"}`)
			h.mu.Lock()
			h.sockets[s] = struct{}{}
			h.mu.Unlock()
			select {
			case h.joined <- struct{}{}:
			default:
			}
		case text == "2":
			_ = s.send("3")
		case text == "41" || text == "1":
			return
		}
	}
}

// SetPingInterval changes the Engine.IO ping interval for new sockets.
func (b *Backend) SetPingInterval(d time.Duration) {
	b.sockets.mu.Lock()
	b.sockets.pingEvery = d
	b.sockets.mu.Unlock()
}

// WaitConnected blocks until a client joined the default namespace.
func (b *Backend) WaitConnected(timeout time.Duration) bool {
	select {
	case <-b.sockets.joined:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Connected is the number of sockets currently joined.
func (b *Backend) Connected() int {
	b.sockets.mu.Lock()
	defer b.sockets.mu.Unlock()
	return len(b.sockets.sockets)
}

// Emit sends a socket.io event to every joined socket.
func (b *Backend) Emit(event string, payload any) error {
	frame, err := json.Marshal([]any{event, payload})
	if err != nil {
		return err
	}
	b.sockets.mu.Lock()
	targets := make([]*socket, 0, len(b.sockets.sockets))
	for s := range b.sockets.sockets {
		targets = append(targets, s)
	}
	b.sockets.mu.Unlock()
	for _, s := range targets {
		if err := s.send("42" + string(frame)); err != nil {
			return err
		}
	}
	return nil
}

func (h *socketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sockets {
		_ = s.conn.Close()
	}
}
