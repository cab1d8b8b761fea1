package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"
)

// UserRepository provides persistence methods for the users table.
type UserRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewUserRepository(db *sql.DB, clock core.Clock) *UserRepository {
	return &UserRepository{db: db, clock: clock}
}

// Save inserts a new user and returns its generated id.
// It will set Created to now if it's not provided (null or zero).
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (int64, error) {
	if !u.Created.Valid {
		u.Created = sql.NullTime{Time: r.clock.Now().UTC(), Valid: true}
	}
	if !u.Enabled.Valid {
		u.Enabled = sql.NullBool{Bool: true, Valid: true}
	}
	query := `INSERT INTO users (username, api_key, created, enabled) VALUES (` + placeholders(1, 4) + `)`
	id, err := insertReturningID(r.db, query, u.Username, u.ApiKey, formatDateInDatabaseNull(u.Created), u.Enabled)
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

// FindByApiKey fetches an enabled user by api_key (exact match). Returns (nil, nil) if not found.
func (r *UserRepository) FindByApiKey(ctx context.Context, apiKey string) (*domain.User, error) {
	query := `
        SELECT id, username, api_key, created, enabled
        FROM users
        WHERE api_key = ` + placeholder(1) + `
        LIMIT 1
    `
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, apiKey).Scan(
		&u.ID,
		&u.Username,
		&u.ApiKey,
		&u.Created,
		&u.Enabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Enabled.Valid && !u.Enabled.Bool {
		return nil, nil
	}
	return &u, nil
}
