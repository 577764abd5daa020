package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"scoreboard/internal/app"
	"scoreboard/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket viewer connection
type Client struct {
	conn     *websocket.Conn
	session  *app.ReplaySession
	viewerID string
	send     chan []byte
	done     chan struct{}
	logger   *zap.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.ReplaySession, viewerID string, logger *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		viewerID: viewerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With(zap.String("viewerID", viewerID)),
	}
}

// GetViewerID returns the viewer ID for this client
func (c *Client) GetViewerID() string {
	return c.viewerID
}

// Send implements app.ViewerConnection. Replay events are translated to
// wire messages; anything else is sent as is.
func (c *Client) Send(message interface{}) error {
	if event, ok := message.(*domain.ReplayEvent); ok {
		msg := messageForEvent(event)
		if msg == nil {
			return nil
		}
		message = msg
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ViewerConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterViewer(c.viewerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgStartReplay:
		c.replyClockError(c.session.Start())
	case MsgPauseReplay:
		c.replyClockError(c.session.Pause())
	case MsgSeek:
		c.handleSeek(msg.Payload)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleSeek handles a seek message
func (c *Client) handleSeek(payload json.RawMessage) {
	var p SeekPayload
	if len(payload) == 0 || json.Unmarshal(payload, &p) != nil || p.Time == nil {
		c.sendError(ErrCodeInvalidTime, "Time is required")
		return
	}
	c.replyClockError(c.session.Seek(*p.Time))
}

// replyClockError reports a failed clock operation back to this viewer only,
// queued behind the session's pending events
func (c *Client) replyClockError(err error) {
	var payload *domain.ErrorPayload
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrInvalidStateTransition):
		payload = &domain.ErrorPayload{
			Code:    ErrCodeInvalidState,
			Message: "Replay cannot do that while " + string(c.session.ClockInfo().State),
		}
	default:
		payload = &domain.ErrorPayload{Code: ErrCodeInternalError, Message: err.Error()}
	}
	c.session.SendTo(c.viewerID, domain.EventError, payload)
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		ViewerID:   c.viewerID,
		ReplayID:   c.session.GetRoomCode(),
		Scoreboard: c.session.Scoreboard(),
	}
	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &domain.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
