package dialogue

import (
	"context"

	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
)

// ScheduleProvider is the read side of the roster sheet.
type ScheduleProvider interface {
	ListDoctors(ctx context.Context) ([]schedule.Doctor, error)
	FindDoctor(ctx context.Context, id int64) (schedule.Doctor, error)
	GetTodaySchedule(ctx context.Context, name string) (schedule.TodaySchedule, error)
}

// RatingService stores visit outcomes and reports doctor ratings.
type RatingService interface {
	RecordVisit(ctx context.Context, outcome service.VisitOutcome) error
	GetStats(ctx context.Context, doctorID int64) (service.DoctorRatingStats, error)
}
