package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pb "github.com/godilite/clinic-assistant/api/v1"
	"github.com/godilite/clinic-assistant/internal/config"
	"github.com/godilite/clinic-assistant/internal/dialogue"
	handler "github.com/godilite/clinic-assistant/internal/grpc"
	"github.com/godilite/clinic-assistant/internal/httpapi"
	"github.com/godilite/clinic-assistant/internal/repository"
	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
	"github.com/godilite/clinic-assistant/pkg/cache"
	dbbuilder "github.com/godilite/clinic-assistant/pkg/database"
	grpcsrv "github.com/godilite/clinic-assistant/pkg/grpc/server"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Version is overridden at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
	httpServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("driver", cfg.DBDriver))

	ratingRepo := repository.NewRatingEventRepository(dbPool, repository.DialectFor(cfg.DBDriver))
	if err := ratingRepo.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("schema init failed: %w", err)
	}

	source, cacheClient, err := newRosterSource(ctx, cfg, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	provider := schedule.NewProvider(source,
		schedule.WithLocation(loc),
		schedule.WithLogger(logger),
	)
	ratingService := service.NewRatingService(ratingRepo, logger)
	engine := dialogue.NewEngine(provider, ratingService, logger,
		dialogue.WithBookingURL(cfg.BookingURL),
	)

	grpcHandlers := handler.NewAssistantHandlers(engine, logger, cfg.RequestTimeout)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
	)
	if err != nil {
		closeQuietly(cacheClient, dbPool)
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterAssistantServer(s, grpcHandlers)
	})

	routerCfg := httpapi.RouterConfig{
		Ratings: ratingService,
		Roster:  provider,
		DB:      dbPool,
		Logger:  logger,
		Env:     cfg.AppEnv,
		Version: Version,
	}
	if cacheClient != nil {
		routerCfg.Cache = cacheClient
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpapi.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: httpServer,
	}, nil
}

// newRosterSource picks the sheet export URL when set and the local CSV
// otherwise, and wraps it in the Redis read-through cache when enabled.
func newRosterSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (schedule.RecordSource, *cache.Cache, error) {
	var source schedule.RecordSource
	if cfg.RosterCSVURL != "" {
		source = schedule.NewHTTPSource(cfg.RosterCSVURL, &http.Client{Timeout: cfg.RequestTimeout})
		logger.Info("Roster source: sheet export", zap.String("url", cfg.RosterCSVURL))
	} else {
		source = schedule.NewFileSource(cfg.RosterCSVPath)
		logger.Info("Roster source: file", zap.String("path", cfg.RosterCSVPath))
	}

	if !cfg.CacheEnabled() {
		return source, nil, nil
	}

	cacheClient, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
	if err != nil {
		return nil, nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.RosterCacheTTL))

	return schedule.NewCachedSource(source, cacheClient, cfg.RosterCacheTTL, logger), cacheClient, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting", zap.String("version", Version))

	a.grpcServer.Start()

	httpErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Info("application shutting down", zap.String("signal", sig.String()))
	case err := <-httpErr:
		a.logger.Error("HTTP server failed", zap.Error(err))
		runErr = err
	case err := <-a.grpcServer.Err():
		runErr = fmt.Errorf("gRPC server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	closeQuietly(a.cache, a.dbPool)

	if ctx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return runErr
}

func closeQuietly(c *cache.Cache, db *sql.DB) {
	if c != nil {
		_ = c.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
