package app

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"scoreboard/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// DefaultStaleTimeout is how long an idle, viewerless replay is kept
	DefaultStaleTimeout = 2 * time.Hour

	// DefaultTickInterval is how often a running replay recomputes standings
	DefaultTickInterval = time.Second
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubOptions tunes replay rooms created by a hub
type HubOptions struct {
	RoomCodeLength int
	TickInterval   time.Duration
	StaleTimeout   time.Duration
}

// ReplayHub manages all replay rooms of a single loaded contest
type ReplayHub struct {
	contest  *domain.Contest
	index    *domain.SubmissionIndex
	sessions map[string]*ReplaySession
	mu       sync.RWMutex
	opts     HubOptions
	logger   *zap.Logger
	done     chan struct{}
}

// NewReplayHub creates a new replay hub over a validated contest and its index
func NewReplayHub(contest *domain.Contest, index *domain.SubmissionIndex, opts HubOptions, logger *zap.Logger) *ReplayHub {
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.StaleTimeout <= 0 {
		opts.StaleTimeout = DefaultStaleTimeout
	}

	hub := &ReplayHub{
		contest:  contest,
		index:    index,
		sessions: make(map[string]*ReplaySession),
		opts:     opts,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// Contest returns the contest replayed by this hub
func (h *ReplayHub) Contest() *domain.Contest {
	return h.contest
}

// ScoreboardAt computes the board at contest time t without any replay room
func (h *ReplayHub) ScoreboardAt(t int) *domain.Scoreboard {
	defer observeStandings(time.Now())
	return domain.NewScoreboard(h.index, h.contest, t, domain.ClockStopped)
}

// CreateReplay creates a new replay room and returns its session
func (h *ReplayHub) CreateReplay() (*ReplaySession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate unique room code
	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}

	if _, exists := h.sessions[roomCode]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	replay := domain.NewReplay(roomCode, h.contest, h.index)
	session := NewReplaySession(replay, h.opts.TickInterval, h.logger)
	h.sessions[roomCode] = session
	replaysActive.Inc()

	h.logger.Info("replay created", zap.String("roomCode", roomCode))

	return session, nil
}

// GetSession returns a replay session by room code
func (h *ReplayHub) GetSession(roomCode string) (*ReplaySession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrReplayNotFound
	}

	return session, nil
}

// DeleteSession removes a replay session
func (h *ReplayHub) DeleteSession(roomCode string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return domain.ErrReplayNotFound
	}
	session.Close()
	delete(h.sessions, roomCode)
	replaysActive.Dec()
	h.logger.Info("replay deleted", zap.String("roomCode", roomCode))
	return nil
}

// GetSessionCount returns the number of open replays
func (h *ReplayHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetRunningCount returns the number of replays whose clock is advancing
func (h *ReplayHub) GetRunningCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	running := 0
	for _, session := range h.sessions {
		if session.IsRunning() {
			running++
		}
	}
	return running
}

// GetTotalViewerCount returns the total number of viewers across all replays
func (h *ReplayHub) GetTotalViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetViewerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *ReplayHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
		replaysActive.Dec()
	}
	h.sessions = make(map[string]*ReplaySession)
}

// generateRoomCode generates a random room code
func (h *ReplayHub) generateRoomCode() string {
	b := make([]byte, h.opts.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, h.opts.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale replays
func (h *ReplayHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleReplays(time.Now())
		}
	}
}

// cleanupStaleReplays removes stopped, viewerless replays idle for too long
func (h *ReplayHub) cleanupStaleReplays(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stale := make([]string, 0)
	for roomCode, session := range h.sessions {
		if session.GetViewerCount() == 0 && !session.IsRunning() && now.Sub(session.GetLastActive()) > h.opts.StaleTimeout {
			stale = append(stale, roomCode)
		}
	}

	for _, roomCode := range stale {
		h.sessions[roomCode].Close()
		delete(h.sessions, roomCode)
		replaysActive.Dec()
		h.logger.Info("stale replay cleaned up", zap.String("roomCode", roomCode))
	}

	return len(stale)
}
