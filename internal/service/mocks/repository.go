package mocks

import (
	"context"
	"errors"

	"github.com/godilite/clinic-assistant/internal/repository/models"
)

// MockRatingEventRepository is a mock implementation of the RatingEventRepository interface
// for testing the service layer.
type MockRatingEventRepository struct {
	InsertEventFunc        func(ctx context.Context, e models.RatingEvent) (int64, error)
	GetStatsFunc           func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error)
	ListEventsByDoctorFunc func(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error)
}

// InsertEvent implements the RatingEventRepository interface
func (m *MockRatingEventRepository) InsertEvent(ctx context.Context, e models.RatingEvent) (int64, error) {
	if m.InsertEventFunc != nil {
		return m.InsertEventFunc(ctx, e)
	}
	return 0, errors.New("InsertEventFunc not implemented")
}

// GetStats implements the RatingEventRepository interface
func (m *MockRatingEventRepository) GetStats(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, doctorID)
	}
	return models.DoctorStatsResult{}, errors.New("GetStatsFunc not implemented")
}

// ListEventsByDoctor implements the RatingEventRepository interface
func (m *MockRatingEventRepository) ListEventsByDoctor(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error) {
	if m.ListEventsByDoctorFunc != nil {
		return m.ListEventsByDoctorFunc(ctx, doctorID, limit)
	}
	return nil, errors.New("ListEventsByDoctorFunc not implemented")
}
