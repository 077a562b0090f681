package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
)

type fakeRatings struct {
	stats  service.DoctorRatingStats
	events []service.RatingEventView
	err    error
	limit  int
}

func (f *fakeRatings) GetStats(ctx context.Context, doctorID int64) (service.DoctorRatingStats, error) {
	return f.stats, f.err
}

func (f *fakeRatings) RecentEvents(ctx context.Context, doctorID int64, limit int) ([]service.RatingEventView, error) {
	f.limit = limit
	return f.events, f.err
}

type fakeRoster struct {
	doctors []schedule.Doctor
	err     error
}

func (f fakeRoster) ListDoctors(ctx context.Context) ([]schedule.Doctor, error) {
	return f.doctors, f.err
}

type pingFunc func(ctx context.Context) error

func (p pingFunc) PingContext(ctx context.Context) error { return p(ctx) }
func (p pingFunc) Ping(ctx context.Context) error        { return p(ctx) }

func pingOK(context.Context) error   { return nil }
func pingDown(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, cfg RouterConfig, path string) *httptest.ResponseRecorder {
	t.Helper()
	cfg.Logger = zaptest.NewLogger(t)
	if cfg.Ratings == nil {
		cfg.Ratings = &fakeRatings{}
	}
	if cfg.Roster == nil {
		cfg.Roster = fakeRoster{}
	}
	rec := httptest.NewRecorder()
	NewRouter(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLiveness(t *testing.T) {
	rec := serve(t, RouterConfig{Env: "test", Version: "1.0"}, "/health/live")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, LivenessResponse{Status: "ok", Version: "1.0", Env: "test"}, decode[LivenessResponse](t, rec))
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		cache      CachePinger
		wantCode   int
		wantStatus string
		wantDeps   map[string]string
	}{
		{"all up", pingFunc(pingOK), pingFunc(pingOK), http.StatusOK, "ok", map[string]string{"database": "ok", "redis": "ok"}},
		{"no cache configured", pingFunc(pingOK), nil, http.StatusOK, "ok", map[string]string{"database": "ok"}},
		{"cache down", pingFunc(pingOK), pingFunc(pingDown), http.StatusOK, "degraded", map[string]string{"database": "ok", "redis": "down"}},
		{"database down", pingFunc(pingDown), pingFunc(pingOK), http.StatusServiceUnavailable, "error", map[string]string{"database": "down", "redis": "ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, RouterConfig{DB: tt.db, Cache: tt.cache}, "/health/ready")

			assert.Equal(t, tt.wantCode, rec.Code)
			body := decode[ReadinessResponse](t, rec)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantDeps, body.Dependencies)
		})
	}
}

func TestDoctorStats(t *testing.T) {
	avg := 4.5
	ratings := &fakeRatings{stats: service.DoctorRatingStats{AvgRating: &avg, RatingCount: 2}}

	rec := serve(t, RouterConfig{Ratings: ratings}, "/doctors/7/stats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"doctor_id":7,"avg_rating":4.5,"rating_count":2}`, rec.Body.String())
}

func TestDoctorStats_NoRatings(t *testing.T) {
	rec := serve(t, RouterConfig{Ratings: &fakeRatings{}}, "/doctors/42/stats")

	assert.JSONEq(t, `{"doctor_id":42,"avg_rating":null,"rating_count":0}`, rec.Body.String())
}

func TestDoctorStats_Errors(t *testing.T) {
	rec := serve(t, RouterConfig{}, "/doctors/abc/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_doctor_id", decode[ErrorResponse](t, rec).Error)

	rec = serve(t, RouterConfig{Ratings: &fakeRatings{err: service.ErrStorageFailure}}, "/doctors/1/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDoctorRatings(t *testing.T) {
	five := 5
	ratings := &fakeRatings{events: []service.RatingEventView{{ID: 2, UserID: 9, Visited: true, Rating: &five}}}

	rec := serve(t, RouterConfig{Ratings: ratings}, "/doctors/7/ratings?limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ratings.limit)
	body := decode[DoctorRatingsResponse](t, rec)
	require.Len(t, body.Events, 1)
	assert.Equal(t, 5, *body.Events[0].Rating)

	rec = serve(t, RouterConfig{Ratings: ratings}, "/doctors/7/ratings")
	assert.Equal(t, defaultRatingsLimit, ratings.limit)

	rec = serve(t, RouterConfig{Ratings: ratings}, "/doctors/7/ratings?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDoctors(t *testing.T) {
	var doctors []schedule.Doctor
	for i := 1; i <= 9; i++ {
		d := schedule.Doctor{ID: int64(i), Name: fmt.Sprintf("Врач %d", i), Specialization: "Терапевт"}
		for day := range d.Hours {
			d.Hours[day] = schedule.DayOff
		}
		doctors = append(doctors, d)
	}

	rec := serve(t, RouterConfig{Roster: fakeRoster{doctors: doctors}}, "/doctors?page=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[DoctorPageResponse](t, rec)
	assert.Len(t, body.Doctors, 2)
	assert.Equal(t, 2, body.TotalPages)
	assert.True(t, body.HasPrev)
	assert.False(t, body.HasNext)
	assert.Equal(t, schedule.DayOff, body.Doctors[0].Hours["пн"])

	rec = serve(t, RouterConfig{Roster: fakeRoster{err: schedule.ErrSourceUnavailable}}, "/doctors")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = serve(t, RouterConfig{}, "/doctors?page=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	NewRouter(RouterConfig{}).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
