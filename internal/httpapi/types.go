package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/godilite/clinic-assistant/internal/service"
)

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

type DoctorStatsResponse struct {
	DoctorID int64 `json:"doctor_id"`
	service.DoctorRatingStats
}

type DoctorRatingsResponse struct {
	DoctorID int64                     `json:"doctor_id"`
	Events   []service.RatingEventView `json:"events"`
}

type DoctorSummary struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Specialization string            `json:"specialization"`
	Hours          map[string]string `json:"hours"`
}

type DoctorPageResponse struct {
	Doctors    []DoctorSummary `json:"doctors"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
