package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/godilite/clinic-assistant/internal/repository/models"
)

type RatingEventRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewRatingEventRepository(db *sql.DB, dialect Dialect) *RatingEventRepository {
	return &RatingEventRepository{db: db, dialect: dialect}
}

// EnsureSchema creates the ratings table when it does not exist yet.
func (r *RatingEventRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.schema()); err != nil {
		return fmt.Errorf("ensure ratings schema: %w", err)
	}
	return nil
}

// InsertEvent appends one event; id and timestamp are assigned by the database.
func (r *RatingEventRepository) InsertEvent(ctx context.Context, e models.RatingEvent) (int64, error) {
	query := r.dialect.rebind(`
		INSERT INTO ratings (user_id, doctor_id, doctor_name, visited, rating)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var rating sql.NullInt64
	if e.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*e.Rating), Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, e.UserID, e.DoctorID, e.DoctorName, e.Visited, rating).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert rating event: %w", err)
	}
	return id, nil
}

// GetStats returns the raw average and count of ratings left after a visit.
func (r *RatingEventRepository) GetStats(ctx context.Context, doctorID int64) (models.DoctorStatsResult, error) {
	query := r.dialect.rebind(`
		SELECT AVG(rating), COUNT(rating)
		FROM ratings
		WHERE doctor_id = ? AND visited = ? AND rating IS NOT NULL
	`)

	var avg sql.NullFloat64
	var count sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, doctorID, true).Scan(&avg, &count)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DoctorStatsResult{}, nil
		}
		return models.DoctorStatsResult{}, fmt.Errorf("query GetStats: %w", err)
	}

	var result models.DoctorStatsResult
	if count.Valid {
		result.Count = count.Int64
	}
	if avg.Valid && result.Count > 0 {
		v := avg.Float64
		result.Average = &v
	}
	return result, nil
}

// ListEventsByDoctor returns a doctor's events, newest first.
func (r *RatingEventRepository) ListEventsByDoctor(ctx context.Context, doctorID int64, limit int) ([]models.RatingEvent, error) {
	query := r.dialect.rebind(`
		SELECT id, user_id, doctor_id, doctor_name, visited, rating, created_at
		FROM ratings
		WHERE doctor_id = ?
		ORDER BY id DESC
		LIMIT ?
	`)

	rows, err := r.db.QueryContext(ctx, query, doctorID, limit)
	if err != nil {
		return nil, fmt.Errorf("query ListEventsByDoctor: %w", err)
	}
	defer rows.Close()

	var events []models.RatingEvent
	for rows.Next() {
		var e models.RatingEvent
		var rating sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &e.DoctorID, &e.DoctorName, &e.Visited, &rating, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ListEventsByDoctor row: %w", err)
		}
		if rating.Valid {
			v := int(rating.Int64)
			e.Rating = &v
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListEventsByDoctor: %w", err)
	}
	return events, nil
}
