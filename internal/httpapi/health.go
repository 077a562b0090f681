package httpapi

import (
	"context"
	"net/http"
	"time"
)

type HealthHandler struct {
	db      Pinger
	cache   CachePinger
	env     string
	version string
}

func NewHealthHandler(db Pinger, cache CachePinger, env, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		env:     env,
		version: version,
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness reports "error" when the ratings store is down and "degraded" when
// only the roster cache is, since the engine can still fetch the roster directly.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	if h.db != nil {
		dbCtx, dbCancel := context.WithTimeout(ctx, time.Second)
		err := h.db.PingContext(dbCtx)
		dbCancel()
		if err != nil {
			deps["database"] = "down"
			status = "error"
		} else {
			deps["database"] = "ok"
		}
	}

	if h.cache != nil {
		cacheCtx, cacheCancel := context.WithTimeout(ctx, time.Second)
		err := h.cache.Ping(cacheCtx)
		cacheCancel()
		if err != nil {
			deps["redis"] = "down"
			if status == "ok" {
				status = "degraded"
			}
		} else {
			deps["redis"] = "ok"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}
