package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"scoreboard/internal/app"
	"scoreboard/internal/config"
	"scoreboard/internal/contestfile"
	"scoreboard/internal/domain"
	httpTransport "scoreboard/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("load config failed ", err)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	contest, err := contestfile.Load(cfg.Replay.ContestFile)
	if err != nil {
		logger.Fatal("load contest failed", zap.Error(err))
	}
	if cfg.Replay.PenaltyMinutes > 0 {
		contest.PenaltyPerTry = cfg.Replay.PenaltyMinutes * 60
	}

	index, err := domain.BuildIndex(contest)
	if err != nil {
		logger.Fatal("build submission index failed", zap.Error(err))
	}

	logger.Info("contest loaded",
		zap.String("name", contest.Name),
		zap.Int("teams", len(contest.Teams)),
		zap.Int("problems", len(contest.Problems)),
		zap.Int("submissions", index.Len()),
		zap.String("duration", domain.FormatClock(contest.Duration)),
		zap.String("freeze", domain.FormatClock(contest.FreezeTime)),
	)

	if cfg.Server.EnableMetrics {
		if err := app.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			logger.Fatal("register metrics failed", zap.Error(err))
		}
	}

	hub := app.NewReplayHub(contest, index, app.HubOptions{
		RoomCodeLength: cfg.Replay.RoomCodeLength,
		TickInterval:   cfg.Replay.TickInterval,
		StaleTimeout:   cfg.Replay.StaleTimeout,
	}, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func initLogger(cfg *config.Config) *zap.Logger {
	if cfg.Logging.Silent {
		return zap.NewNop()
	}

	var zc zap.Config
	if cfg.Logging.Format == "json" || cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level.SetLevel(level)

	logger, err := zc.Build()
	if err != nil {
		log.Fatalln("init logger failed ", err)
	}
	return logger
}
