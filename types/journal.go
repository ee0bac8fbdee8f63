package types

import "time"

// JournalEntry is a daily journal entry owned by a user.
type JournalEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    string     `json:"-" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	Mood      string     `json:"mood" db:"mood"`
	Date      *time.Time `json:"date" db:"date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
