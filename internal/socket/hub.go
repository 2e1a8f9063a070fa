// server/internal/socket/hub.go
package socket

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrUnknownSession is returned by Send for a session that is not registered.
var ErrUnknownSession = errors.New("socket: unknown session")

// Conn is the part of *websocket.Conn the hub writes through.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// Hub tracks live-search websocket sessions. Writes to one session are
// serialized so handler goroutines can share a connection safely.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	logger   *slog.Logger
}

type session struct {
	conn    Conn
	writeMu sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]*session),
		logger:   logger,
	}
}

// Register adds conn under a fresh session id and returns the id.
func (h *Hub) Register(conn Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = &session{conn: conn}
	h.mu.Unlock()
	h.logger.Debug("websocket session registered", slog.String("session", id))
	return id
}

// Unregister removes a session. Closing the connection is left to the caller.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[id]; ok {
		delete(h.sessions, id)
		h.logger.Debug("websocket session unregistered", slog.String("session", id))
	}
}

// Send writes v as JSON to one session.
func (h *Hub) Send(id string, v interface{}) error {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return ErrUnknownSession
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CloseAll sends a close frame to every session and forgets them. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for id, s := range sessions {
		s.writeMu.Lock()
		if err := s.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
			h.logger.Debug("websocket close frame failed", slog.String("session", id), slog.Any("error", err))
		}
		_ = s.conn.Close()
		s.writeMu.Unlock()
	}
}
