package service

import (
	"context"

	"github.com/godilite/clinic-assistant/internal/repository/models"
)

// RatingEventRepository defines the interface for database operations for service.
type RatingEventRepository interface {
	InsertEvent(ctx context.Context, e models.RatingEvent) (int64, error)
	GetStats(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error)
	ListEventsByDoctor(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error)
}
