package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackclub/iplace/internal/api"
	"github.com/hackclub/iplace/internal/core/ports"
	"github.com/hackclub/iplace/internal/core/service"
	"github.com/hackclub/iplace/internal/infrastructure/db/redis"
	"github.com/hackclub/iplace/internal/infrastructure/db/sqlite"
	"github.com/hackclub/iplace/internal/infrastructure/hackatime"
	"github.com/hackclub/iplace/internal/infrastructure/janitor"
	"github.com/hackclub/iplace/internal/infrastructure/reviewqueue"
	"github.com/hackclub/iplace/internal/infrastructure/slack"
	"github.com/hackclub/iplace/internal/pkg/config"
	"github.com/hackclub/iplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	db, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	frameRepo := sqlite.NewFrameRepository(db)
	tileRepo := sqlite.NewTileRepository(db)

	// --- External collaborators ---
	var workSource ports.WorkSource = hackatime.NewClient(cfg.Hackatime.AdminKey, hackatime.WithBaseURL(cfg.Hackatime.BaseURL))

	rdb, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		// The cache tier is optional. Run uncached rather than refuse to
		// start.
		log.Warn().Err(err).Msg("redis unavailable, work log cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
		workSource = redis.NewCachedWorkSource(workSource, rdb)
	}

	identity := slack.NewClient(cfg.Slack.ClientID, cfg.Slack.ClientSecret)
	review := reviewqueue.NewClient(cfg.Tracker.APIKey, cfg.Tracker.BaseID, cfg.Tracker.TableID,
		reviewqueue.WithBaseURL(cfg.Tracker.BaseURL))

	// --- Services ---
	authSvc := service.NewAuthService(userRepo, sessionRepo, identity, cfg.JWTSecret, log)
	budgetSvc := service.NewBudgetService(workSource, frameRepo, cfg.BeginDate, log)
	frameSvc := service.NewFrameService(frameRepo, userRepo, budgetSvc, review, log)
	tileSvc := service.NewTileService(tileRepo, frameRepo, log)
	gridSvc := service.NewGridService(tileRepo, frameRepo, userRepo, log)

	janitor.New(sessionRepo, 0, log).Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Auth:           authSvc,
		Frames:         frameSvc,
		Tiles:          tileSvc,
		Grid:           gridSvc,
		Budget:         budgetSvc,
		InternalSecret: cfg.InternalSecret,
		DB:             db,
		Redis:          rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("iplace api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
