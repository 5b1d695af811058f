package event

import "time"

type Event struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Name            string    `json:"name"`
	ID              int64     `json:"id"`
	Capacity        int64     `json:"capacity"`
	PointsTotal     int64     `json:"points_total"`
	PointsRemaining int64     `json:"points_remaining"`
	Published       bool      `json:"published"`
}

// AllGuests selects every guest of the event as an award target.
const AllGuests int64 = 0
