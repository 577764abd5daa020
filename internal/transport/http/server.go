package http

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"scoreboard/internal/app"
	"scoreboard/internal/config"
	"scoreboard/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	engine *gin.Engine
	hub    *app.ReplayHub
	config *config.Config
	logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, hub *app.ReplayHub, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		hub:    hub,
		config: cfg,
		logger: logger,
	}

	s.engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	s.engine.Use(ginzap.RecoveryWithZap(logger, true))
	s.engine.Use(cors())

	if cfg.Server.EnableMetrics {
		initGinMetrics(s.engine)
	}

	s.setupRoutes(s.engine)

	s.server = &http.Server{
		Addr:        cfg.GetAddr(),
		Handler:     s.engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/contest", s.handleContest)
	api.GET("/scoreboard", s.handleScoreboard)

	replays := api.Group("/replays")
	replays.POST("", s.handleCreateReplay)
	replays.GET("/:roomCode", s.handleGetReplay)
	replays.DELETE("/:roomCode", s.handleDeleteReplay)
	replays.POST("/:roomCode/start", s.handleStartReplay)
	replays.POST("/:roomCode/pause", s.handlePauseReplay)
	replays.POST("/:roomCode/seek", s.handleSeekReplay)

	// WebSocket
	r.GET("/ws", gin.WrapH(ws.NewHandler(s.hub, s.logger)))

	if s.config.Server.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// Handler returns the router, used by tests and alternative listeners
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

func initGinMetrics(r *gin.Engine) {
	p := ginprometheus.NewWithConfig(ginprometheus.Config{
		Subsystem:          "gin",
		DisableBodyReading: true,
	})
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		return c.FullPath()
	}
	r.Use(p.HandlerFunc())
}

// cors adds permissive CORS headers and answers preflight requests
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
