package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mindwell/apiserver/types"
)

const tipColumns = `id, title, content, category, image_url, source_text, created_at, updated_at`

// TipRepository handles read-only access to pre-seeded daily tips.
type TipRepository struct {
	db *sql.DB
}

func NewTipRepository(db *sql.DB) *TipRepository {
	return &TipRepository{db: db}
}

// Count returns the number of tips, optionally filtered by category.
func (r *TipRepository) Count(ctx context.Context, category string) (int, error) {
	var total int
	var err error
	if category != "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM daily_tips WHERE category = $1`, category).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM daily_tips`).Scan(&total)
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// List returns one page of tips ordered by creation descending.
func (r *TipRepository) List(ctx context.Context, category string, offset, limit int) ([]types.DailyTip, error) {
	if category != "" {
		const query = `
			SELECT ` + tipColumns + `
			FROM daily_tips
			WHERE category = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		return r.queryTips(ctx, query, category, limit, offset)
	}
	const query = `
		SELECT ` + tipColumns + `
		FROM daily_tips
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	return r.queryTips(ctx, query, limit, offset)
}

// ListRandom returns up to limit tips in random order, ignoring
// pagination entirely.
func (r *TipRepository) ListRandom(ctx context.Context, category string, limit int) ([]types.DailyTip, error) {
	if category != "" {
		const query = `
			SELECT ` + tipColumns + `
			FROM daily_tips
			WHERE category = $1
			ORDER BY RANDOM()
			LIMIT $2`
		return r.queryTips(ctx, query, category, limit)
	}
	const query = `
		SELECT ` + tipColumns + `
		FROM daily_tips
		ORDER BY RANDOM()
		LIMIT $1`
	return r.queryTips(ctx, query, limit)
}

func (r *TipRepository) Get(ctx context.Context, id int) (types.DailyTip, error) {
	const query = `
		SELECT ` + tipColumns + `
		FROM daily_tips
		WHERE id = $1`
	var tip types.DailyTip
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tip.ID,
		&tip.Title,
		&tip.Content,
		&tip.Category,
		&tip.ImageURL,
		&tip.SourceText,
		&tip.CreatedAt,
		&tip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DailyTip{}, ErrNotFound
		}
		return types.DailyTip{}, err
	}
	return tip, nil
}

// Categories returns the distinct non-null categories in ascending order.
func (r *TipRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT category
		FROM daily_tips
		WHERE category IS NOT NULL
		ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *TipRepository) queryTips(ctx context.Context, query string, args ...any) ([]types.DailyTip, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tips := make([]types.DailyTip, 0)
	for rows.Next() {
		var tip types.DailyTip
		if err := rows.Scan(
			&tip.ID,
			&tip.Title,
			&tip.Content,
			&tip.Category,
			&tip.ImageURL,
			&tip.SourceText,
			&tip.CreatedAt,
			&tip.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}
	return tips, rows.Err()
}
