package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mindwell/apiserver/types"
)

const userColumns = `id, username, email, password, google_id, avatar_url, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByEmailOrGoogleID resolves the single account matching either key.
// Both sign-up paths funnel through this lookup so one person never ends
// up with two rows.
func (r *UserRepository) GetByEmailOrGoogleID(ctx context.Context, email, googleID string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 OR google_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email, googleID))
}

// ExistsByEmailOrUsername reports whether either unique key is taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	const query = `SELECT COUNT(1) FROM users WHERE email = $1 OR username = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, email, username).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsernameExists reports whether the exact username is taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT COUNT(1) FROM users WHERE username = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (id, username, email, password, google_id, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// LinkGoogleIdentity fills in google_id and avatar_url where currently
// null and refreshes updated_at. Existing non-null values are never
// overwritten.
func (r *UserRepository) LinkGoogleIdentity(ctx context.Context, id, googleID, avatarURL string) (types.User, error) {
	const query = `
		UPDATE users
		SET google_id = COALESCE(google_id, $1),
			avatar_url = COALESCE(avatar_url, NULLIF($2, '')),
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, googleID, avatarURL, time.Now(), id)
	if err != nil {
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Touch refreshes updated_at, used as a last-login marker.
func (r *UserRepository) Touch(ctx context.Context, id string) error {
	const query = `UPDATE users SET updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
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

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
