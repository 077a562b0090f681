package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/godilite/clinic-assistant/internal/repository/models"
	"go.uber.org/zap"
)

const (
	dbTimeout = 2 * time.Second

	MinRating = 1
	MaxRating = 5

	maxRecentEvents = 100
)

var (
	ErrInvalidEvent   = errors.New("invalid rating event")
	ErrStorageFailure = errors.New("storage failure")
)

// RatingService records visit outcomes and aggregates doctor ratings.
type RatingService struct {
	storage RatingEventRepository
	logger  *zap.Logger
}

// NewRatingService creates a new RatingService instance.
func NewRatingService(storage RatingEventRepository, logger *zap.Logger) *RatingService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &RatingService{
		storage: storage,
		logger:  logger.Named("rating-service"),
	}
}

// NotVisited builds the outcome for a user who did not see the doctor.
func NotVisited(userID, doctorID int64, doctorName string) VisitOutcome {
	return VisitOutcome{UserID: userID, DoctorID: doctorID, DoctorName: doctorName}
}

// Rated builds the outcome for a completed visit with a score.
func Rated(userID, doctorID int64, doctorName string, rating int) VisitOutcome {
	return VisitOutcome{UserID: userID, DoctorID: doctorID, DoctorName: doctorName, Visited: true, Rating: &rating}
}

// Validate enforces: rating present iff visited, and within 1..5.
func (o VisitOutcome) Validate() error {
	switch {
	case o.DoctorID == 0:
		return fmt.Errorf("%w: doctor id is required", ErrInvalidEvent)
	case !o.Visited && o.Rating != nil:
		return fmt.Errorf("%w: rating without a visit", ErrInvalidEvent)
	case o.Visited && o.Rating == nil:
		return fmt.Errorf("%w: visit without a rating", ErrInvalidEvent)
	case o.Rating != nil && (*o.Rating < MinRating || *o.Rating > MaxRating):
		return fmt.Errorf("%w: rating %d out of range", ErrInvalidEvent, *o.Rating)
	}
	return nil
}

// RecordVisit validates and appends a single rating event.
func (s *RatingService) RecordVisit(ctx context.Context, outcome VisitOutcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.storage.InsertEvent(dbCtx, models.RatingEvent{
		UserID:     outcome.UserID,
		DoctorID:   outcome.DoctorID,
		DoctorName: outcome.DoctorName,
		Visited:    outcome.Visited,
		Rating:     outcome.Rating,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("rating event stored",
		zap.Int64("event_id", id),
		zap.Int64("user_id", outcome.UserID),
		zap.Int64("doctor_id", outcome.DoctorID),
		zap.Bool("visited", outcome.Visited))
	return nil
}

// GetStats returns the doctor's average (one decimal) and rating count.
func (s *RatingService) GetStats(ctx context.Context, doctorID int64) (DoctorRatingStats, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := s.storage.GetStats(dbCtx, doctorID)
	if err != nil {
		return DoctorRatingStats{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	stats := DoctorRatingStats{RatingCount: result.Count}
	if result.Count > 0 && result.Average != nil {
		avg := roundToTenth(*result.Average)
		stats.AvgRating = &avg
	}
	return stats, nil
}

// RecentEvents lists the latest events for a doctor.
func (s *RatingService) RecentEvents(ctx context.Context, doctorID int64, limit int) ([]RatingEventView, error) {
	if limit <= 0 || limit > maxRecentEvents {
		limit = maxRecentEvents
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListEventsByDoctor(dbCtx, doctorID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	out := make([]RatingEventView, len(rows))
	for i, r := range rows {
		out[i] = RatingEventView{
			ID:        r.ID,
			UserID:    r.UserID,
			Visited:   r.Visited,
			Rating:    r.Rating,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// roundToTenth rounds the exact binary value half to even: 17/4 gives 4.2,
// 19/4 gives 4.8, and 81/20 (stored just below 4.05) gives 4.0.
func roundToTenth(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
