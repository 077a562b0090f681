package service

import "time"

// DoctorRatingStats is derived on demand and never stored.
type DoctorRatingStats struct {
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int64    `json:"rating_count"`
}

// VisitOutcome is what a user reported at the end of the visit flow.
type VisitOutcome struct {
	UserID     int64
	DoctorID   int64
	DoctorName string
	Visited    bool
	Rating     *int
}

type RatingEventView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Visited   bool      `json:"visited"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
