package types

import "time"

// MoodRecord is one observed mood for a user, produced as a side
// effect of a successful image inference. Records are insert-only.
type MoodRecord struct {
	ID         int       `json:"id" db:"id"`
	UserID     string    `json:"-" db:"user_id"`
	Mood       string    `json:"mood" db:"mood"`
	Confidence float64   `json:"confidence" db:"confidence"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
}
