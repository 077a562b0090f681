package models

import "time"

// RatingEvent is one row of the append-only ratings log.
type RatingEvent struct {
	ID         int64
	UserID     int64
	DoctorID   int64
	DoctorName string
	Visited    bool
	Rating     *int
	CreatedAt  time.Time
}

type DoctorStatsResult struct {
	Average *float64
	Count   int64
}
