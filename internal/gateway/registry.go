package gateway

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Registry maps session ids to their live realtime connection. One registry is
// created per listener and drained when it shuts down.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Register binds sessionID to c, replacing any older connection for the session.
func (r *Registry) Register(sessionID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sessionID] = c
}

// Remove drops every entry pointing at c. Entries are matched by connection,
// so a session that reconnected keeps its newer connection.
func (r *Registry) Remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.conns {
		if conn == c {
			delete(r.conns, id)
		}
	}
}

func (r *Registry) Get(sessionID string) (*Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[sessionID]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll sends a close frame to every registered connection and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.conns = make(map[string]*Conn)
	r.mu.Unlock()

	for _, c := range conns {
		c.Close(websocket.CloseGoingAway, "server shutting down")
	}
}
