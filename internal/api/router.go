// Package api assembles the HTTP surface: routing, middleware, metrics
// and the error envelope.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/hackclub/iplace/internal/api/handler"
	"github.com/hackclub/iplace/internal/api/middleware"
	"github.com/hackclub/iplace/internal/core/ports"
	"github.com/hackclub/iplace/internal/infrastructure/db/sqlite"
	"github.com/hackclub/iplace/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth   ports.AuthService
	Frames ports.FrameService
	Tiles  ports.TileService
	Grid   ports.GridService
	Budget ports.BudgetService

	// InternalSecret authenticates the automation boundary. Empty means
	// the internal endpoints reject every request.
	InternalSecret string

	DB    *sqlite.DB
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("iplace"))
	e.Use(middleware.Session(deps.Auth))

	// --- Handlers ---
	gridHandler := handler.NewGridHandler(deps.Grid)
	tileHandler := handler.NewTileHandler(deps.Tiles)
	frameHandler := handler.NewFrameHandler(deps.Frames)
	projectHandler := handler.NewProjectHandler(deps.Budget)
	authHandler := handler.NewAuthHandler(deps.Auth)
	internalHandler := handler.NewInternalHandler(deps.InternalSecret, deps.Frames, deps.Tiles, deps.Auth)

	// --- Public routes ---
	e.GET("/api/map", gridHandler.Map)
	e.GET("/api/slack-callback", authHandler.SlackCallback)

	// --- Player routes (session required) ---
	requireUser := middleware.RequireUser()
	e.POST("/api/place-tile", tileHandler.Place, requireUser)
	e.POST("/api/update-frame-time", frameHandler.UpdateTime, requireUser)
	e.GET("/api/recent-frames", frameHandler.Recent, requireUser)
	e.POST("/api/hackatime-projects", projectHandler.List, requireUser)
	e.POST("/api/create-authorship-token", authHandler.CreateAuthorshipToken, requireUser)

	// --- Automation boundary (shared secret in body) ---
	internal := e.Group("/api/internal")
	internal.POST("/create-frame", internalHandler.CreateFrame)
	internal.POST("/approve-frame", internalHandler.ApproveFrame)
	internal.POST("/place-pending-tile", internalHandler.PlacePendingTile)
	internal.POST("/verify-token", internalHandler.VerifyToken)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)             // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness)  // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
