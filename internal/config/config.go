package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Replay  ReplayConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port          string `env:"SCOREBOARD_PORT" envDefault:"8080"`
	Host          string `env:"SCOREBOARD_HOST" envDefault:"0.0.0.0"`
	Env           string `env:"SCOREBOARD_ENV" envDefault:"development"` // "development" or "production"
	EnableMetrics bool   `env:"SCOREBOARD_ENABLE_METRICS" envDefault:"true"`
}

// ReplayConfig holds contest and replay configuration
type ReplayConfig struct {
	ContestFile    string        `env:"SCOREBOARD_CONTEST_FILE" envDefault:"contest.json"`
	TickInterval   time.Duration `env:"SCOREBOARD_TICK_INTERVAL" envDefault:"1s"`
	PenaltyMinutes int           `env:"SCOREBOARD_PENALTY_MINUTES"` // 0 keeps the contest file's value
	StaleTimeout   time.Duration `env:"SCOREBOARD_STALE_REPLAY_TIMEOUT" envDefault:"2h"`
	RoomCodeLength int           `env:"SCOREBOARD_ROOM_CODE_LENGTH" envDefault:"6"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"SCOREBOARD_LOG_LEVEL" envDefault:"info"`
	Format string `env:"SCOREBOARD_LOG_FORMAT" envDefault:"console"` // "json" or "console"
	Silent bool   `env:"SCOREBOARD_LOG_SILENT"`
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Replay.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", cfg.Replay.TickInterval)
	}
	if cfg.Replay.PenaltyMinutes < 0 {
		return nil, fmt.Errorf("penalty minutes must not be negative, got %d", cfg.Replay.PenaltyMinutes)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
