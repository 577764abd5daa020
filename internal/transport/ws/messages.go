package ws

import (
	"encoding/json"
	"time"

	"scoreboard/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgStartReplay MessageType = "start_replay"
	MsgPauseReplay MessageType = "pause_replay"
	MsgSeek        MessageType = "seek"
	MsgPing        MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected   MessageType = "connected"
	MsgError       MessageType = "error"
	MsgScoreboard  MessageType = "scoreboard"
	MsgClockState  MessageType = "clock_state"
	MsgReplayEnded MessageType = "replay_ended"
	MsgViewers     MessageType = "viewers"
	MsgPong        MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// messageForEvent translates a replay event into the wire message viewers get
func messageForEvent(event *domain.ReplayEvent) *ServerMessage {
	var t MessageType
	switch event.Type {
	case domain.EventScoreboard:
		t = MsgScoreboard
	case domain.EventClockChanged:
		t = MsgClockState
	case domain.EventReplayEnded:
		t = MsgReplayEnded
	case domain.EventViewerJoined, domain.EventViewerLeft:
		t = MsgViewers
	case domain.EventError:
		t = MsgError
	default:
		return nil
	}
	return &ServerMessage{
		Type:      t,
		Payload:   event.Payload,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// SeekPayload is the payload for seek message
type SeekPayload struct {
	Time *int `json:"time"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	ViewerID   string             `json:"viewerId"`
	ReplayID   string             `json:"replayId"`
	Scoreboard *domain.Scoreboard `json:"scoreboard"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeInvalidState   = "INVALID_STATE_TRANSITION"
	ErrCodeInvalidTime    = "INVALID_QUERY_TIME"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
