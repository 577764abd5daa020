package app

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"scoreboard/internal/domain"
)

// ViewerConnection represents a connected scoreboard viewer
type ViewerConnection interface {
	Send(message interface{}) error
	GetViewerID() string
	Close() error
}

// ReplaySession wraps a replay with a ticker, concurrency control and viewer
// management. The clock itself is never touched outside mu.
type ReplaySession struct {
	replay       *domain.Replay
	mu           sync.Mutex
	viewers      map[string]ViewerConnection // viewerID -> connection
	viewersMu    sync.RWMutex
	logger       *zap.Logger
	tickInterval time.Duration
	now          func() time.Time
	lastActive   time.Time

	// Closed to stop the running ticker loop
	tickerStop chan struct{}

	// Event channel for broadcasting
	events chan *domain.ReplayEvent
	done   chan struct{}
}

// NewReplaySession creates a new replay session
func NewReplaySession(replay *domain.Replay, tickInterval time.Duration, logger *zap.Logger) *ReplaySession {
	session := &ReplaySession{
		replay:       replay,
		viewers:      make(map[string]ViewerConnection),
		logger:       logger.With(zap.String("replay", replay.ID)),
		tickInterval: tickInterval,
		now:          time.Now,
		lastActive:   time.Now(),
		events:       make(chan *domain.ReplayEvent, 100),
		done:         make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetRoomCode returns the room code
func (s *ReplaySession) GetRoomCode() string {
	return s.replay.ID
}

// GetCreatedAt returns when the replay was created
func (s *ReplaySession) GetCreatedAt() time.Time {
	return s.replay.CreatedAt
}

// GetLastActive returns when the replay last changed state or gained a viewer
func (s *ReplaySession) GetLastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// IsRunning reports whether the replay clock is advancing
func (s *ReplaySession) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replay.Clock.Running()
}

// GetViewerCount returns the number of connected viewers
func (s *ReplaySession) GetViewerCount() int {
	s.viewersMu.RLock()
	defer s.viewersMu.RUnlock()
	return len(s.viewers)
}

// RegisterViewer registers a connection for a viewer
func (s *ReplaySession) RegisterViewer(viewerID string, viewer ViewerConnection) {
	s.viewersMu.Lock()
	s.viewers[viewerID] = viewer
	count := len(s.viewers)
	s.viewersMu.Unlock()

	viewersConnected.Inc()
	s.touch()
	s.queueEvent(domain.NewEvent(domain.EventViewerJoined, s.replay.ID, &domain.ViewersPayload{Viewers: count}))
}

// UnregisterViewer removes a viewer connection
func (s *ReplaySession) UnregisterViewer(viewerID string) {
	s.viewersMu.Lock()
	_, ok := s.viewers[viewerID]
	delete(s.viewers, viewerID)
	count := len(s.viewers)
	s.viewersMu.Unlock()

	if !ok {
		return
	}
	viewersConnected.Dec()
	s.queueEvent(domain.NewEvent(domain.EventViewerLeft, s.replay.ID, &domain.ViewersPayload{Viewers: count}))
}

// Scoreboard returns the board at the current query time
func (s *ReplaySession) Scoreboard() *domain.Scoreboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreboardUnlocked()
}

// ClockInfo returns the current clock state
func (s *ReplaySession) ClockInfo() *domain.ClockPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replay.ClockInfo()
}

// Start starts the replay clock and its ticker
func (s *ReplaySession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replay.Clock.Start(s.now()); err != nil {
		return err
	}
	s.lastActive = s.now()

	s.tickerStop = make(chan struct{})
	go s.tickLoop(s.tickerStop)

	s.logger.Info("replay started", zap.Int("queryTime", s.replay.Clock.QueryTime()))
	s.queueEvent(domain.NewEvent(domain.EventClockChanged, s.replay.ID, s.replay.ClockInfo()))

	return nil
}

// Pause stops the replay clock at the current contest time
func (s *ReplaySession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replay.Clock.Pause(s.now()); err != nil {
		return err
	}
	s.lastActive = s.now()
	s.stopTickerUnlocked()

	s.logger.Info("replay paused", zap.Int("queryTime", s.replay.Clock.QueryTime()))
	s.queueEvent(domain.NewEvent(domain.EventClockChanged, s.replay.ID, s.replay.ClockInfo()))
	s.queueEvent(domain.NewEvent(domain.EventScoreboard, s.replay.ID, s.scoreboardUnlocked()))

	// A running clock is always short of the end, so landing on it means the
	// pause itself finished the replay.
	if s.replay.Clock.QueryTime() == s.replay.Clock.Duration() {
		s.endedUnlocked()
	}

	return nil
}

// Seek moves a stopped replay to contest time t
func (s *ReplaySession) Seek(t int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replay.Clock.Seek(t); err != nil {
		return err
	}
	s.lastActive = s.now()

	s.logger.Debug("replay seeked", zap.Int("requested", t), zap.Int("queryTime", s.replay.Clock.QueryTime()))
	s.queueEvent(domain.NewEvent(domain.EventClockChanged, s.replay.ID, s.replay.ClockInfo()))
	s.queueEvent(domain.NewEvent(domain.EventScoreboard, s.replay.ID, s.scoreboardUnlocked()))

	return nil
}

// tickLoop advances the clock until the replay ends or stop is closed
func (s *ReplaySession) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.done:
			return
		case <-ticker.C:
			if s.tick(stop) {
				return
			}
		}
	}
}

// tick processes one clock tick and reports whether the ticker should exit
func (s *ReplaySession) tick(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A tick can race with Pause, or belong to a loop replaced by a later Start.
	if s.tickerStop != stop || !s.replay.Clock.Running() {
		return true
	}

	clockTicks.Inc()
	ended := s.replay.Clock.Tick(s.now())
	s.queueEvent(domain.NewEvent(domain.EventScoreboard, s.replay.ID, s.scoreboardUnlocked()))

	if ended {
		s.stopTickerUnlocked()
		s.endedUnlocked()
	}

	return ended
}

// endedUnlocked records that the replay reached the contest end (caller must hold lock)
func (s *ReplaySession) endedUnlocked() {
	replaysEnded.Inc()
	s.logger.Info("replay reached contest end", zap.Int("queryTime", s.replay.Clock.QueryTime()))
	s.queueEvent(domain.NewEvent(domain.EventReplayEnded, s.replay.ID, s.replay.ClockInfo()))
}

// stopTickerUnlocked stops the ticker loop (caller must hold lock)
func (s *ReplaySession) stopTickerUnlocked() {
	if s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}

// scoreboardUnlocked builds the board (caller must hold lock)
func (s *ReplaySession) scoreboardUnlocked() *domain.Scoreboard {
	defer observeStandings(time.Now())
	return s.replay.Scoreboard()
}

func (s *ReplaySession) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// SendTo queues an event for a single viewer
func (s *ReplaySession) SendTo(viewerID string, eventType domain.EventType, payload interface{}) {
	s.queueEvent(domain.NewViewerEvent(eventType, s.replay.ID, viewerID, payload))
}

// queueEvent adds an event to the broadcast queue
func (s *ReplaySession) queueEvent(event *domain.ReplayEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", zap.String("type", string(event.Type)))
	}
}

// eventLoop processes events and broadcasts to viewers
func (s *ReplaySession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the appropriate viewers
func (s *ReplaySession) broadcastEvent(event *domain.ReplayEvent) {
	s.viewersMu.RLock()
	defer s.viewersMu.RUnlock()

	// If viewer-specific, send only to that viewer
	if event.ViewerID != "" {
		if viewer, ok := s.viewers[event.ViewerID]; ok {
			if err := viewer.Send(event); err != nil {
				s.logger.Debug("failed to send to viewer", zap.String("viewerID", event.ViewerID), zap.Error(err))
			}
		}
		return
	}

	for viewerID, viewer := range s.viewers {
		if err := viewer.Send(event); err != nil {
			s.logger.Debug("failed to send to viewer", zap.String("viewerID", viewerID), zap.Error(err))
		}
	}
}

// Close shuts down the session
func (s *ReplaySession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.mu.Lock()
	s.stopTickerUnlocked()
	s.mu.Unlock()

	// Close all viewer connections
	s.viewersMu.Lock()
	for _, viewer := range s.viewers {
		viewer.Close()
		viewersConnected.Dec()
	}
	s.viewers = make(map[string]ViewerConnection)
	s.viewersMu.Unlock()
}
