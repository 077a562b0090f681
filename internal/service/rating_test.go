package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/godilite/clinic-assistant/internal/repository/models"
	"github.com/godilite/clinic-assistant/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestNewRatingService tests the constructor
func TestNewRatingService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{}

		svc := NewRatingService(mockRepo, zap.NewNop())

		assert.NotNil(t, svc)
		assert.Equal(t, mockRepo, svc.storage)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRatingService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewRatingService(&mocks.MockRatingEventRepository{}, nil)
		assert.NotNil(t, svc.logger)
	})
}

func TestVisitOutcome_Validate(t *testing.T) {
	zero, six, three := 0, 6, 3

	cases := []struct {
		name    string
		outcome VisitOutcome
		wantErr bool
	}{
		{"not visited without rating", NotVisited(1, 42, "Иванов"), false},
		{"rated visit", Rated(1, 7, "Петров", 5), false},
		{"not visited with rating", VisitOutcome{UserID: 1, DoctorID: 7, Rating: &three}, true},
		{"visited without rating", VisitOutcome{UserID: 1, DoctorID: 7, Visited: true}, true},
		{"rating zero", VisitOutcome{UserID: 1, DoctorID: 7, Visited: true, Rating: &zero}, true},
		{"rating six", VisitOutcome{UserID: 1, DoctorID: 7, Visited: true, Rating: &six}, true},
		{"missing doctor", VisitOutcome{UserID: 1, Visited: false}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.outcome.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordVisit(t *testing.T) {
	ctx := context.Background()

	t.Run("not visited stores null rating", func(t *testing.T) {
		var stored models.RatingEvent
		mockRepo := &mocks.MockRatingEventRepository{
			InsertEventFunc: func(ctx context.Context, e models.RatingEvent) (int64, error) {
				stored = e
				return 1, nil
			},
		}

		err := NewRatingService(mockRepo, zap.NewNop()).RecordVisit(ctx, NotVisited(5, 42, "Иванов"))

		require.NoError(t, err)
		assert.Equal(t, int64(5), stored.UserID)
		assert.Equal(t, int64(42), stored.DoctorID)
		assert.Equal(t, "Иванов", stored.DoctorName)
		assert.False(t, stored.Visited)
		assert.Nil(t, stored.Rating)
	})

	t.Run("invalid outcome never reaches storage", func(t *testing.T) {
		calls := 0
		mockRepo := &mocks.MockRatingEventRepository{
			InsertEventFunc: func(ctx context.Context, e models.RatingEvent) (int64, error) {
				calls++
				return 1, nil
			},
		}

		err := NewRatingService(mockRepo, zap.NewNop()).RecordVisit(ctx, Rated(5, 7, "Петров", 9))

		assert.ErrorIs(t, err, ErrInvalidEvent)
		assert.Zero(t, calls)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{
			InsertEventFunc: func(ctx context.Context, e models.RatingEvent) (int64, error) {
				return 0, errors.New("database is locked")
			},
		}

		err := NewRatingService(mockRepo, zap.NewNop()).RecordVisit(ctx, Rated(5, 7, "Петров", 4))

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "database is locked")
	})
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("no ratings", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{
			GetStatsFunc: func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
				return models.DoctorStatsResult{}, nil
			},
		}

		stats, err := NewRatingService(mockRepo, zap.NewNop()).GetStats(ctx, 42)

		require.NoError(t, err)
		assert.Nil(t, stats.AvgRating)
		assert.Equal(t, int64(0), stats.RatingCount)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		avg := 4.666666
		mockRepo := &mocks.MockRatingEventRepository{
			GetStatsFunc: func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
				assert.Equal(t, int64(7), doctorID)
				return models.DoctorStatsResult{Average: &avg, Count: 3}, nil
			},
		}

		stats, err := NewRatingService(mockRepo, zap.NewNop()).GetStats(ctx, 7)

		require.NoError(t, err)
		require.NotNil(t, stats.AvgRating)
		assert.Equal(t, 4.7, *stats.AvgRating)
		assert.Equal(t, int64(3), stats.RatingCount)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{
			GetStatsFunc: func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
				return models.DoctorStatsResult{}, errors.New("no such table: ratings")
			},
		}

		_, err := NewRatingService(mockRepo, zap.NewNop()).GetStats(ctx, 7)

		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestGetStats_RoundsMeanHalfToEven(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"single rating", []int{5}, 5.0},
		{"exact half rounds down to even", []int{5, 5, 4, 3}, 4.2},
		{"exact half below", []int{4, 4, 3, 2}, 3.2},
		{"exact half rounds up to even", []int{5, 5, 5, 4}, 4.8},
		{"low tie", []int{2, 1, 1, 1}, 1.2},
		{"mid tie", []int{3, 2, 2, 2}, 2.2},
		{"already one decimal", []int{1, 2}, 1.5},
		{"repeating thirds down", []int{5, 4, 4}, 4.3},
		{"repeating thirds up", []int{5, 5, 4}, 4.7},
		{"binary value just below 4.05", append(repeat(4, 19), 5), 4.0},
		{"binary value just above 4.15", append(repeat(4, 17), 5, 5, 5), 4.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0
			for _, r := range tt.ratings {
				sum += r
			}
			mean := float64(sum) / float64(len(tt.ratings))
			mockRepo := &mocks.MockRatingEventRepository{
				GetStatsFunc: func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
					return models.DoctorStatsResult{Average: &mean, Count: int64(len(tt.ratings))}, nil
				},
			}

			stats, err := NewRatingService(mockRepo, zap.NewNop()).GetStats(context.Background(), 1)

			require.NoError(t, err)
			require.NotNil(t, stats.AvgRating)
			assert.Equal(t, tt.want, *stats.AvgRating)
			assert.Equal(t, int64(len(tt.ratings)), stats.RatingCount)
		})
	}
}

func TestGetStats_StaysWithinHalfStepOfMean(t *testing.T) {
	rng := rand.New(rand.NewSource(20250301))

	for i := 0; i < 50; i++ {
		n := rng.Intn(30) + 1
		sum := 0
		for j := 0; j < n; j++ {
			sum += rng.Intn(MaxRating) + MinRating
		}
		mean := float64(sum) / float64(n)

		mockRepo := &mocks.MockRatingEventRepository{
			GetStatsFunc: func(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
				return models.DoctorStatsResult{Average: &mean, Count: int64(n)}, nil
			},
		}

		stats, err := NewRatingService(mockRepo, zap.NewNop()).GetStats(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, stats.AvgRating)
		assert.InDelta(t, mean, *stats.AvgRating, 0.05+1e-9)
		assert.InDelta(t, 0, *stats.AvgRating*10-float64(int(*stats.AvgRating*10+0.5)), 1e-9, "one decimal place")
	}
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRecentEvents(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rating := 4

	t.Run("limit is clamped", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{
			ListEventsByDoctorFunc: func(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error) {
				assert.Equal(t, maxRecentEvents, limit)
				return []models.RatingEvent{{ID: 3, UserID: 9, DoctorID: doctorID, Visited: true, Rating: &rating, CreatedAt: now}}, nil
			},
		}

		events, err := NewRatingService(mockRepo, zap.NewNop()).RecentEvents(context.Background(), 7, 0)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(9), events[0].UserID)
		assert.Equal(t, now, events[0].CreatedAt)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockRepo := &mocks.MockRatingEventRepository{
			ListEventsByDoctorFunc: func(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := NewRatingService(mockRepo, zap.NewNop()).RecentEvents(context.Background(), 7, 10)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}
