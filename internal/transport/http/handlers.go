package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scoreboard/internal/app"
	"scoreboard/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveReplays  int `json:"activeReplays"`
	RunningReplays int `json:"runningReplays"`
	TotalViewers   int `json:"totalViewers"`
}

// TeamInfo is the public part of a team
type TeamInfo struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

// ContestResponse describes the loaded contest without its submissions
type ContestResponse struct {
	Name          string     `json:"name"`
	Duration      int        `json:"duration"`
	FreezeTime    int        `json:"freeze"`
	PenaltyPerTry int        `json:"penaltyPerTry"`
	Problems      []string   `json:"problems"`
	Teams         []TeamInfo `json:"teams"`
}

// CreateReplayResponse is the response for replay creation
type CreateReplayResponse struct {
	RoomCode   string `json:"roomCode"`
	StreamLink string `json:"streamLink"`
}

// SeekRequest is the body of a seek request
type SeekRequest struct {
	Time *int `json:"time"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	s.sendSuccess(c, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(c *gin.Context) {
	s.sendSuccess(c, &StatsResponse{
		ActiveReplays:  s.hub.GetSessionCount(),
		RunningReplays: s.hub.GetRunningCount(),
		TotalViewers:   s.hub.GetTotalViewerCount(),
	})
}

// handleContest handles GET /api/contest
func (s *Server) handleContest(c *gin.Context) {
	contest := s.hub.Contest()

	teams := make([]TeamInfo, 0, len(contest.Teams))
	for _, t := range contest.Teams {
		teams = append(teams, TeamInfo{Name: t.Name, Affiliation: t.Affiliation})
	}

	s.sendSuccess(c, &ContestResponse{
		Name:          contest.Name,
		Duration:      contest.Duration,
		FreezeTime:    contest.FreezeTime,
		PenaltyPerTry: contest.Penalty(),
		Problems:      contest.Problems,
		Teams:         teams,
	})
}

// handleScoreboard handles GET /api/scoreboard?t=SECONDS
func (s *Server) handleScoreboard(c *gin.Context) {
	t := 0
	if raw := c.Query("t"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.sendError(c, http.StatusBadRequest, "INVALID_QUERY_TIME", domain.ErrInvalidQueryTime.Error())
			return
		}
		t = v
	}

	s.sendSuccess(c, s.hub.ScoreboardAt(t))
}

// handleCreateReplay handles POST /api/replays
func (s *Server) handleCreateReplay(c *gin.Context) {
	session, err := s.hub.CreateReplay()
	if err != nil {
		s.logger.Error("failed to create replay", zap.Error(err))
		s.sendError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create replay")
		return
	}

	scheme := "ws"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}

	s.sendSuccess(c, &CreateReplayResponse{
		RoomCode:   session.GetRoomCode(),
		StreamLink: scheme + "://" + c.Request.Host + "/ws?replay=" + session.GetRoomCode(),
	})
}

// handleGetReplay handles GET /api/replays/:roomCode
func (s *Server) handleGetReplay(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	s.sendSuccess(c, session.Scoreboard())
}

// handleDeleteReplay handles DELETE /api/replays/:roomCode
func (s *Server) handleDeleteReplay(c *gin.Context) {
	if err := s.hub.DeleteSession(strings.ToUpper(c.Param("roomCode"))); err != nil {
		s.sendReplayError(c, err)
		return
	}
	s.sendSuccess(c, nil)
}

// handleStartReplay handles POST /api/replays/:roomCode/start
func (s *Server) handleStartReplay(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	if err := session.Start(); err != nil {
		s.sendReplayError(c, err)
		return
	}
	s.sendSuccess(c, session.ClockInfo())
}

// handlePauseReplay handles POST /api/replays/:roomCode/pause
func (s *Server) handlePauseReplay(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}
	if err := session.Pause(); err != nil {
		s.sendReplayError(c, err)
		return
	}
	s.sendSuccess(c, session.ClockInfo())
}

// handleSeekReplay handles POST /api/replays/:roomCode/seek
func (s *Server) handleSeekReplay(c *gin.Context) {
	session, ok := s.session(c)
	if !ok {
		return
	}

	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Time == nil {
		s.sendError(c, http.StatusBadRequest, "INVALID_QUERY_TIME", "time is required")
		return
	}
	if err := session.Seek(*req.Time); err != nil {
		s.sendReplayError(c, err)
		return
	}
	s.sendSuccess(c, session.Scoreboard())
}

// session resolves the room code parameter, writing a 404 when it is unknown
func (s *Server) session(c *gin.Context) (*app.ReplaySession, bool) {
	session, err := s.hub.GetSession(strings.ToUpper(c.Param("roomCode")))
	if err != nil {
		s.sendReplayError(c, err)
		return nil, false
	}
	return session, true
}

// sendReplayError maps domain errors to HTTP responses
func (s *Server) sendReplayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrReplayNotFound):
		s.sendError(c, http.StatusNotFound, "REPLAY_NOT_FOUND", "Replay not found")
	case errors.Is(err, domain.ErrInvalidStateTransition):
		s.sendError(c, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error())
	default:
		s.logger.Error("replay request failed", zap.Error(err))
		s.sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
