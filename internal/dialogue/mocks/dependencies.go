package mocks

import (
	"context"
	"errors"

	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
)

// MockScheduleProvider is a function-based mock of the dialogue ScheduleProvider.
type MockScheduleProvider struct {
	ListDoctorsFunc      func(ctx context.Context) ([]schedule.Doctor, error)
	FindDoctorFunc       func(ctx context.Context, id int64) (schedule.Doctor, error)
	GetTodayScheduleFunc func(ctx context.Context, name string) (schedule.TodaySchedule, error)
}

func (m *MockScheduleProvider) ListDoctors(ctx context.Context) ([]schedule.Doctor, error) {
	if m.ListDoctorsFunc != nil {
		return m.ListDoctorsFunc(ctx)
	}
	return nil, errors.New("ListDoctorsFunc not implemented")
}

func (m *MockScheduleProvider) FindDoctor(ctx context.Context, id int64) (schedule.Doctor, error) {
	if m.FindDoctorFunc != nil {
		return m.FindDoctorFunc(ctx, id)
	}
	return schedule.Doctor{}, errors.New("FindDoctorFunc not implemented")
}

func (m *MockScheduleProvider) GetTodaySchedule(ctx context.Context, name string) (schedule.TodaySchedule, error) {
	if m.GetTodayScheduleFunc != nil {
		return m.GetTodayScheduleFunc(ctx, name)
	}
	return schedule.TodaySchedule{}, errors.New("GetTodayScheduleFunc not implemented")
}

// MockRatingService is a function-based mock of the dialogue RatingService.
type MockRatingService struct {
	RecordVisitFunc func(ctx context.Context, outcome service.VisitOutcome) error
	GetStatsFunc    func(ctx context.Context, doctorID int64) (service.DoctorRatingStats, error)
}

func (m *MockRatingService) RecordVisit(ctx context.Context, outcome service.VisitOutcome) error {
	if m.RecordVisitFunc != nil {
		return m.RecordVisitFunc(ctx, outcome)
	}
	return errors.New("RecordVisitFunc not implemented")
}

func (m *MockRatingService) GetStats(ctx context.Context, doctorID int64) (service.DoctorRatingStats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, doctorID)
	}
	return service.DoctorRatingStats{}, errors.New("GetStatsFunc not implemented")
}
