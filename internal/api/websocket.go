package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-objgw/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-objgw/internal/rpc"
)

// wsSendBufferSize is the per-client outbound message buffer size.
const wsSendBufferSize = 64

// wsRequest is one inbound RPC frame. ID correlates the response; it is
// chosen by the client and echoed back verbatim.
type wsRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// wsResponse is one outbound frame: the correlation ID plus the flattened
// envelope.
type wsResponse struct {
	ID      string `json:"id,omitempty"`
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// wsClient is one connected WebSocket RPC client.
type wsClient struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

// handleWebSocket upgrades the HTTP connection and serves RPC frames over
// it. Each frame is dispatched in its own goroutine, so a slow operation
// does not block the ones behind it; responses carry the client's
// correlation ID and may arrive out of order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		server: s,
		conn:   conn,
		send:   make(chan []byte, wsSendBufferSize),
	}

	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

// readPump reads frames from the WebSocket connection.
func (c *wsClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read error", "error", err)
			} else {
				c.server.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleFrame(message)
	}
}

// writePump writes frames to the WebSocket connection and keeps it alive
// with protocol-level pings.
func (c *wsClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame decodes one inbound frame and dispatches it asynchronously.
func (c *wsClient) handleFrame(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.respond("", rpc.Failure("Malformed request: "+err.Error()))
		return
	}

	go func() {
		env := c.server.dispatcher.Dispatch(c.server.requestContext(), req.Method, req.Params)
		c.respond(req.ID, env)
	}()
}

// respond flattens the envelope into a response frame and queues it.
func (c *wsClient) respond(id string, env rpc.Envelope) {
	data, err := json.Marshal(wsResponse{
		ID:      id,
		OK:      env.OK,
		Data:    env.Data,
		Error:   env.Error,
		Message: env.Message,
	})
	if err != nil {
		c.server.logger.Error("failed to marshal websocket response", "error", err)
		return
	}
	c.trySend(data)
}

// trySend queues data for the write pump. It silently handles closed
// channels (client disconnected mid-dispatch) and full buffers (slow
// client).
func (c *wsClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// closeSend closes the send channel exactly once.
func (c *wsClient) closeSend() {
	c.once.Do(func() {
		close(c.send)
	})
}
