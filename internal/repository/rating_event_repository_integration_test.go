package repository_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/godilite/clinic-assistant/internal/repository"
	"github.com/godilite/clinic-assistant/internal/repository/models"
)

func setupTestRepo(t *testing.T) (*repository.RatingEventRepository, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewRatingEventRepository(db, repository.DialectSQLite)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo, db
}

func intPtr(v int) *int { return &v }

func TestRatingEventRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	events := []models.RatingEvent{
		{UserID: 1, DoctorID: 7, DoctorName: "Петров П.П.", Visited: true, Rating: intPtr(5)},
		{UserID: 2, DoctorID: 7, DoctorName: "Петров П.П.", Visited: true, Rating: intPtr(4)},
		{UserID: 3, DoctorID: 7, DoctorName: "Петров П.П.", Visited: false},
		{UserID: 4, DoctorID: 42, DoctorName: "Иванов И.И.", Visited: true, Rating: intPtr(2)},
	}
	for _, e := range events {
		id, err := repo.InsertEvent(ctx, e)
		require.NoError(t, err)
		require.Greater(t, id, int64(0))
	}

	t.Run("GetStats ignores visits without rating", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 7)
		require.NoError(t, err)
		require.Equal(t, int64(2), stats.Count)
		require.NotNil(t, stats.Average)
		require.InDelta(t, 4.5, *stats.Average, 1e-9)
	})

	t.Run("GetStats for unknown doctor", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 999)
		require.NoError(t, err)
		require.Equal(t, int64(0), stats.Count)
		require.Nil(t, stats.Average)
	})

	t.Run("ListEventsByDoctor newest first", func(t *testing.T) {
		got, err := repo.ListEventsByDoctor(ctx, 7, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, int64(3), got[0].UserID)
		require.False(t, got[0].Visited)
		require.Nil(t, got[0].Rating)
		require.Equal(t, 4, *got[1].Rating)
		require.False(t, got[0].CreatedAt.IsZero())
	})

	t.Run("rating outside 1..5 rejected by schema", func(t *testing.T) {
		_, err := repo.InsertEvent(ctx, models.RatingEvent{UserID: 1, DoctorID: 7, DoctorName: "x", Visited: true, Rating: intPtr(9)})
		require.Error(t, err)
	})
}

func TestRatingEventRepository_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestRepo(t)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := repo.InsertEvent(ctx, models.RatingEvent{UserID: user, DoctorID: 11, DoctorName: "Сидорова", Visited: true, Rating: intPtr(3)})
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := repo.GetStats(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, int64(writers), stats.Count)
	require.InDelta(t, 3.0, *stats.Average, 1e-9)
}
