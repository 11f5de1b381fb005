package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/vehicle-catalog/internal/server"
	"github.com/Sternrassler/vehicle-catalog/pkg/cache"
	"github.com/Sternrassler/vehicle-catalog/pkg/classify"
	"github.com/Sternrassler/vehicle-catalog/pkg/config"
	"github.com/Sternrassler/vehicle-catalog/pkg/loader"
	"github.com/Sternrassler/vehicle-catalog/pkg/logging"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.LogPretty
	logCfg.File.Path = cfg.LogFile
	_, logCloser := logging.Setup(logCfg)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Startup failed")
	}
	defer a.close()

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("loader", cfg.Loader).Msg("Starting catalog API server")
		errc <- a.server.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err := <-errc:
		log.Error().Err(err).Msg("Server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server shutdown incomplete")
	}
}

// app is the wired process.
type app struct {
	server  *server.Server
	coord   *cache.Coordinator
	cron    *cron.Cron
	closers []func() error
}

// setup wires loader, mirror, coordinator, schedule and server from cfg.
func setup(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	src, err := buildLoader(cfg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	opts := []cache.Option{
		cache.WithTTL(cfg.CacheTTL),
		cache.WithLogger(logging.NewLogger("cache")),
	}
	mirror := connectMirror(ctx, cfg, a)
	if mirror != nil {
		opts = append(opts, cache.WithMirror(mirror))
	}
	a.coord = cache.NewCoordinator(loader.Instrument(cfg.Loader, src), opts...)
	log.Info().Dur("ttl", a.coord.TTL()).Bool("mirror", mirror != nil).Msg("Cache coordinator ready")

	warmCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := a.coord.Warm(warmCtx); err != nil {
		log.Warn().Err(err).Msg("Cache warm start failed; starting empty")
	}

	if cfg.RefreshSchedule != "" {
		a.cron = cron.New()
		if _, err := cache.ScheduleRefresh(a.cron, cfg.RefreshSchedule, a.coord, cfg.UpstreamTimeout); err != nil {
			a.close()
			return nil, fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", cfg.RefreshSchedule, err)
		}
		a.cron.Start()
		log.Info().Str("schedule", cfg.RefreshSchedule).Msg("Scheduled cache refresh enabled")
	}

	a.server = server.New(a.coord, server.Config{
		ExposeErrors: cfg.ExposeErrors,
		CORSOrigins:  cfg.CORSOrigins,
	})
	return a, nil
}

// buildLoader creates the configured upstream loader. Resources it opens are
// registered on a for release.
func buildLoader(cfg *config.Config, a *app) (loader.Loader, error) {
	classifier := classify.New(
		classify.WithProviderRule(classify.NameMarkerRule(cfg.BankMarkers...)),
		classify.WithLogger(logging.NewLogger("classifier")),
	)

	switch cfg.Loader {
	case config.LoaderWebhook:
		return loader.NewWebhook(loader.WebhookConfig{
			URL:        cfg.UpstreamURL,
			DebugURL:   cfg.UpstreamDebugURL,
			Timeout:    cfg.UpstreamTimeout,
			Retries:    cfg.UpstreamRetries,
			Classifier: classifier,
		}), nil
	case config.LoaderSQL:
		db, err := loader.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		return loader.NewSQL(db, loader.SQLConfig{Timeout: cfg.UpstreamTimeout}), nil
	case config.LoaderWorkbook:
		return loader.NewWorkbook(cfg.XLSXPath, classifier), nil
	default:
		return nil, fmt.Errorf("unknown loader %q", cfg.Loader)
	}
}

// connectMirror returns the Redis mirror, or nil when it is disabled or
// unreachable. The service runs without it.
func connectMirror(ctx context.Context, cfg *config.Config, a *app) *cache.Mirror {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redisOptions(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid REDIS_URL; snapshot mirror disabled")
		return nil
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unreachable; snapshot mirror disabled")
		client.Close()
		return nil
	}
	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis snapshot mirror")

	a.closers = append(a.closers, client.Close)
	return cache.NewMirror(client, cfg.MirrorTTL)
}

// redisOptions accepts a redis:// URL or a bare host:port.
func redisOptions(raw string) (*redis.Options, error) {
	if strings.Contains(raw, "://") {
		return redis.ParseURL(raw)
	}
	if raw == "" {
		return nil, errors.New("empty redis address")
	}
	return &redis.Options{Addr: raw}, nil
}

// close stops the schedule, drains background work and releases resources.
func (a *app) close() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.coord != nil {
		a.coord.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Failed to release resource")
		}
	}
	a.closers = nil
}
