package store

import (
	"context"
	"database/sql"

	"github.com/mindwell/apiserver/types"
)

// MoodRepository handles persistence for mood records. Records are
// insert-only: no update or delete is exposed.
type MoodRepository struct {
	db *sql.DB
}

func NewMoodRepository(db *sql.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

func (r *MoodRepository) Create(ctx context.Context, record types.MoodRecord) (types.MoodRecord, error) {
	const query = `
		INSERT INTO mood_record (user_id, mood, confidence)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		record.UserID,
		record.Mood,
		record.Confidence,
	).Scan(&record.ID, &record.Timestamp); err != nil {
		return types.MoodRecord{}, err
	}
	return record, nil
}

// ListByUser returns the user's mood history, newest first.
func (r *MoodRepository) ListByUser(ctx context.Context, userID string) ([]types.MoodRecord, error) {
	const query = `
		SELECT id, mood, confidence, timestamp
		FROM mood_record
		WHERE user_id = $1
		ORDER BY timestamp DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]types.MoodRecord, 0)
	for rows.Next() {
		record := types.MoodRecord{UserID: userID}
		if err := rows.Scan(&record.ID, &record.Mood, &record.Confidence, &record.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
