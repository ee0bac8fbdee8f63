package store

import (
	"context"
	"database/sql"

	"github.com/mindwell/apiserver/types"
)

// JournalRepository handles persistence for daily journal entries.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	const query = `
		INSERT INTO daily_journals (user_id, title, content, mood, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.Title,
		entry.Content,
		entry.Mood,
		entry.Date,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return types.JournalEntry{}, err
	}
	return entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *JournalRepository) ListByUser(ctx context.Context, userID string) ([]types.JournalEntry, error) {
	const query = `
		SELECT id, title, content, mood, date, created_at, updated_at
		FROM daily_journals
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.JournalEntry, 0)
	for rows.Next() {
		entry := types.JournalEntry{UserID: userID}
		if err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Content,
			&entry.Mood,
			&entry.Date,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *JournalRepository) Update(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	const query = `
		UPDATE daily_journals
		SET title = $1,
			content = $2,
			mood = $3,
			date = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.Title,
		entry.Content,
		entry.Mood,
		entry.Date,
		entry.ID,
	)
	if err != nil {
		return types.JournalEntry{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.JournalEntry{}, err
	}
	if affected == 0 {
		return types.JournalEntry{}, ErrNotFound
	}
	return entry, nil
}

func (r *JournalRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM daily_journals WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
