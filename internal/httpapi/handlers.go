package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/godilite/clinic-assistant/internal/roster"
	"github.com/godilite/clinic-assistant/internal/schedule"
)

const defaultRatingsLimit = 20

func doctorIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func doctorStatsHandler(ratings RatingReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := doctorIDParam(w, r)
		if !ok {
			return
		}

		stats, err := ratings.GetStats(r.Context(), id)
		if err != nil {
			logger.Error("stats query failed", zap.Int64("doctor_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "storage_failure", "could not load rating stats")
			return
		}

		writeJSON(w, http.StatusOK, DoctorStatsResponse{DoctorID: id, DoctorRatingStats: stats})
	}
}

func doctorRatingsHandler(ratings RatingReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := doctorIDParam(w, r)
		if !ok {
			return
		}

		limit := defaultRatingsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
				return
			}
			limit = n
		}

		events, err := ratings.RecentEvents(r.Context(), id, limit)
		if err != nil {
			logger.Error("ratings query failed", zap.Int64("doctor_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "storage_failure", "could not load ratings")
			return
		}

		writeJSON(w, http.StatusOK, DoctorRatingsResponse{DoctorID: id, Events: events})
	}
}

func listDoctorsHandler(source Roster, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if raw := r.URL.Query().Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid_page", "page must be a non-negative integer")
				return
			}
			page = n
		}

		doctors, err := source.ListDoctors(r.Context())
		if err != nil {
			logger.Error("roster fetch failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "roster_unavailable", "could not load the doctor roster")
			return
		}

		p := roster.Paginate(doctors, page)
		resp := DoctorPageResponse{
			Doctors:    make([]DoctorSummary, len(p.Doctors)),
			Page:       p.Number,
			TotalPages: p.TotalPages,
			HasPrev:    p.HasPrev,
			HasNext:    p.HasNext,
		}
		for i, d := range p.Doctors {
			resp.Doctors[i] = summarize(d)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func summarize(d schedule.Doctor) DoctorSummary {
	hours := make(map[string]string, 7)
	for day := schedule.Monday; day <= schedule.Sunday; day++ {
		hours[day.Key()] = d.Hours.On(day)
	}
	return DoctorSummary{ID: d.ID, Name: d.Name, Specialization: d.Specialization, Hours: hours}
}
