package schedule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	colID             = "id врача"
	colName           = "фио врача"
	colSpecialization = "специализация"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrSourceUnavailable = errors.New("schedule source unavailable")
	ErrMalformedRecord   = errors.New("malformed schedule record")
)

// Provider turns raw sheet rows into typed doctors. It holds no state:
// every lookup reads the source again.
type Provider struct {
	source RecordSource
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

type ProviderOption func(*Provider)

// WithClock overrides the time source used for the "today" view.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

func WithLocation(loc *time.Location) ProviderOption {
	return func(p *Provider) { p.loc = loc }
}

func WithLogger(logger *zap.Logger) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

func NewProvider(source RecordSource, opts ...ProviderOption) *Provider {
	if source == nil {
		panic("nil RecordSource provided to NewProvider")
	}
	p := &Provider{
		source: source,
		now:    time.Now,
		loc:    time.Local,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("schedule")
	return p
}

// ListDoctors returns the full roster in sheet order.
func (p *Provider) ListDoctors(ctx context.Context) ([]Doctor, error) {
	records, err := p.source.Records(ctx)
	if err != nil {
		p.logger.Error("roster fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	doctors := make([]Doctor, 0, len(records))
	for i, rec := range records {
		d, err := parseRecord(rec)
		if err != nil {
			p.logger.Error("roster row rejected", zap.Int("row", i+2), zap.Error(err))
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		doctors = append(doctors, d)
	}
	return doctors, nil
}

// FindDoctor looks a doctor up by id.
func (p *Provider) FindDoctor(ctx context.Context, id int64) (Doctor, error) {
	doctors, err := p.ListDoctors(ctx)
	if err != nil {
		return Doctor{}, err
	}
	for _, d := range doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return Doctor{}, fmt.Errorf("%w: id %d", ErrDoctorNotFound, id)
}

// GetSchedule looks a doctor up by full name, ignoring case.
func (p *Provider) GetSchedule(ctx context.Context, name string) (Doctor, error) {
	doctors, err := p.ListDoctors(ctx)
	if err != nil {
		return Doctor{}, err
	}
	want := strings.TrimSpace(name)
	for _, d := range doctors {
		if strings.EqualFold(d.Name, want) {
			return d, nil
		}
	}
	return Doctor{}, fmt.Errorf("%w: %q", ErrDoctorNotFound, name)
}

// GetTodaySchedule projects the doctor's week onto the current local day.
func (p *Provider) GetTodaySchedule(ctx context.Context, name string) (TodaySchedule, error) {
	d, err := p.GetSchedule(ctx, name)
	if err != nil {
		return TodaySchedule{}, err
	}
	return Today(d, p.now().In(p.loc)), nil
}

// Today builds the single-day view of d for the weekday of t.
func Today(d Doctor, t time.Time) TodaySchedule {
	day := WeekdayOf(t)
	return TodaySchedule{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Day:            day,
		Hours:          d.Hours.On(day),
	}
}

func parseRecord(rec Record) (Doctor, error) {
	rawID := strings.TrimSpace(rec[colID])
	if rawID == "" {
		return Doctor{}, fmt.Errorf("%w: missing %q", ErrMalformedRecord, colID)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Doctor{}, fmt.Errorf("%w: %q is not an integer id", ErrMalformedRecord, rawID)
	}

	name := strings.TrimSpace(rec[colName])
	if name == "" {
		return Doctor{}, fmt.Errorf("%w: missing %q", ErrMalformedRecord, colName)
	}
	spec, ok := rec[colSpecialization]
	if !ok {
		return Doctor{}, fmt.Errorf("%w: missing %q", ErrMalformedRecord, colSpecialization)
	}

	d := Doctor{ID: id, Name: name, Specialization: strings.TrimSpace(spec)}
	for day := Monday; day <= Sunday; day++ {
		hours := strings.TrimSpace(rec[day.Key()])
		if hours == "" {
			hours = DayOff
		}
		d.Hours[day] = hours
	}
	return d, nil
}
