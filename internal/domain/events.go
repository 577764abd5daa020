package domain

import "time"

// EventType represents the type of replay event
type EventType string

const (
	EventViewerJoined EventType = "VIEWER_JOINED"
	EventViewerLeft   EventType = "VIEWER_LEFT"
	EventClockChanged EventType = "CLOCK_CHANGED"
	EventScoreboard   EventType = "SCOREBOARD"
	EventReplayEnded  EventType = "REPLAY_ENDED"
	EventError        EventType = "ERROR"
)

// ReplayEvent represents something that happened in a replay
type ReplayEvent struct {
	Type      EventType   `json:"type"`
	ReplayID  string      `json:"replayId"`
	ViewerID  string      `json:"viewerId,omitempty"` // If event is viewer-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new replay event
func NewEvent(eventType EventType, replayID string, payload interface{}) *ReplayEvent {
	return &ReplayEvent{
		Type:      eventType,
		ReplayID:  replayID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewViewerEvent creates a new viewer-specific replay event
func NewViewerEvent(eventType EventType, replayID, viewerID string, payload interface{}) *ReplayEvent {
	return &ReplayEvent{
		Type:      eventType,
		ReplayID:  replayID,
		ViewerID:  viewerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ClockPayload is sent when the clock starts, pauses or is seeked
type ClockPayload struct {
	QueryTime int        `json:"queryTime"`
	TimeLeft  int        `json:"timeLeft"`
	State     ClockState `json:"state"`
	Frozen    bool       `json:"frozen"`
}

// ViewersPayload is sent when a viewer joins or leaves
type ViewersPayload struct {
	Viewers int `json:"viewers"`
}

// ErrorPayload is sent when an error occurs
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
