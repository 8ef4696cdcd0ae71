package gateway

import (
	"sync"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/model"

	"github.com/gorilla/websocket"
)

// Conn is one realtime connection. Writes are serialised so frames of one
// prompt never interleave with keepalives or another prompt's frames.
type Conn struct {
	ws        *websocket.Conn
	sessionID string
	writeWait time.Duration
	queue     chan model.InboundFrame

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, sessionID string, cfg config.GatewayConfig) *Conn {
	return &Conn{
		ws:        ws,
		sessionID: sessionID,
		writeWait: cfg.WriteWait,
		queue:     make(chan model.InboundFrame, cfg.QueueSize),
	}
}

func (c *Conn) SessionID() string {
	return c.sessionID
}

// Send writes one frame as a JSON text message.
func (c *Conn) Send(f model.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.ws.WriteJSON(f)
}

func (c *Conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

// Close sends a close frame and closes the socket. Safe to call more than once.
func (c *Conn) Close(code int, text string) {
	c.closeOnce.Do(func() {
		c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(c.writeWait))
		c.ws.Close()
	})
}
