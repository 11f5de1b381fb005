// Package server maps HTTP requests onto the aggregation views of the cached
// catalog.
package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/vehicle-catalog/pkg/cache"
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/metrics"
)

// Catalog is the cache surface the handlers need.
type Catalog interface {
	Get(ctx context.Context, bypass bool) (cache.Result, error)
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
	Status() cache.Status
}

// Config configures the HTTP server.
type Config struct {
	// ExposeErrors adds internal error detail to 5xx responses.
	ExposeErrors bool

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the catalog HTTP API.
type Server struct {
	app     *fiber.App
	catalog Catalog
	config  Config
	logger  zerolog.Logger
}

// New creates the server and registers all routes.
func New(cat Catalog, cfg Config) *Server {
	if cat == nil {
		panic("catalog cannot be nil")
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		// Covers an Empty-state upstream load.
		cfg.WriteTimeout = 60 * time.Second
	}

	s := &Server{
		catalog: cat,
		config:  cfg,
		logger:  log.With().Str("component", "http").Logger(),
	}
	s.app = fiber.New(fiber.Config{
		AppName:      "vehicle-catalog",
		ErrorHandler: s.errorHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupMiddleware() {
	// Request ID middleware - must be first
	s.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			s.logger.Error().
				Str("request_id", requestid.FromContext(c)).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Interface("panic", e).
				Msg("Recovered from panic")
		},
	}))

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  s.config.CORSOrigins,
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	s.app.Use(Metrics())
	s.app.Use(AccessLog(s.logger))
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	s.app.Get("/", s.tables)
	s.app.Get("/tables", s.tables)
	s.app.Get("/debug", s.debugTables)

	s.app.Get("/vehicles", s.listVehicles)
	s.app.Get("/vehicles/:id", s.getVehicle)
	s.app.Get("/pricing", s.getPricing)
	s.app.Get("/insurance", s.getInsurance)
	s.app.Get("/financing", s.getFinancing)

	s.app.Get("/cache/status", s.cacheStatus)
	s.app.Post("/refresh-cache", s.refreshCache)
}
