// Package spectate serves a read-only live view of a round over websockets.
//
// The server is a session.Renderer: each frame is encoded once and queued to
// every connected watcher. Watchers never feed anything back into the game.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/brensch/termsnake/session"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type Server struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	lastJSON []byte
	lastText string
	dropped  int
	closed   bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
			// Read-only stream; any origin may watch.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logger.With("component", "spectate"),
		clients: make(map[*client]struct{}),
	}
}

// Handler serves GET /spectate (websocket, one JSON frame per message) and
// GET /frame (the latest frame as plain text).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /spectate", s.serveWS)
	mux.HandleFunc("GET /frame", s.serveFrame)
	return mux
}

// Render queues f to every watcher. A watcher whose queue is full misses the
// frame rather than stalling the game.
func (s *Server) Render(f session.Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastJSON = b
	s.lastText = f.String()
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
			s.dropped++
		}
	}
	return nil
}

// Watchers returns the number of connected watchers.
func (s *Server) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then disconnects every
// watcher.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.Close()
	}()

	s.log.Info("spectator server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close disconnects all watchers and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
	if s.dropped > 0 {
		s.log.Warn("frames dropped for slow watchers", "dropped", s.dropped)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "round over"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	if s.lastJSON != nil {
		c.send <- s.lastJSON
	}
	s.mu.Unlock()

	s.log.Info("watcher connected", "remote", conn.RemoteAddr().String())
	go s.writePump(c)
	s.readPump(c)
}

// readPump discards anything a watcher sends and notices when it leaves.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("watcher read error", "err", err)
			}
			break
		}
	}

	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	s.log.Info("watcher disconnected", "remote", c.conn.RemoteAddr().String())
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug("watcher write error", "err", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round over"),
		time.Now().Add(writeWait))
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := s.lastText
	s.mu.Unlock()

	if text == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
