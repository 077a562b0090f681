package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger is satisfied by *cache.Cache.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type RatingReader interface {
	GetStats(ctx context.Context, doctorID int64) (service.DoctorRatingStats, error)
	RecentEvents(ctx context.Context, doctorID int64, limit int) ([]service.RatingEventView, error)
}

type Roster interface {
	ListDoctors(ctx context.Context) ([]schedule.Doctor, error)
}

type RouterConfig struct {
	Ratings RatingReader
	Roster  Roster
	DB      Pinger
	// Cache is optional; readiness skips it when nil.
	Cache   CachePinger
	Logger  *zap.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))

	health := NewHealthHandler(cfg.DB, cfg.Cache, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/doctors", listDoctorsHandler(cfg.Roster, logger))
	r.Get("/doctors/{id}/stats", doctorStatsHandler(cfg.Ratings, logger))
	r.Get("/doctors/{id}/ratings", doctorRatingsHandler(cfg.Ratings, logger))

	return r
}
