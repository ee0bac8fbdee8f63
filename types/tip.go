package types

import "time"

// DailyTip is a pre-seeded wellness tip served read-only by the API.
type DailyTip struct {
	ID         int       `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Category   *string   `json:"category" db:"category"`
	ImageURL   *string   `json:"image_url" db:"image_url"`
	SourceText *string   `json:"source_text" db:"source_text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
