package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leafmark/leafmark/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for user accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile fetches the username and email for an account.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `SELECT username, email FROM users WHERE id = $1`, userID).Scan(&p.Username, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the username and email of an account.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, username, email string) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET username = $2, email = $3, updated_at = now() WHERE id = $1 RETURNING username, email`,
		userID, username, email,
	).Scan(&p.Username, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email or username already exists", httpx.ErrDuplicate)
		}
		return nil, err
	}
	return &p, nil
}

// ListOthers returns every account except the given one, with role names.
func (r *Repository) ListOthers(ctx context.Context, excludeID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.username, u.email, COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
		 FROM users u
		 LEFT JOIN user_roles ur ON ur.user_id = u.id
		 LEFT JOIN roles r ON r.id = ur.role_id
		 WHERE u.id <> $1
		 GROUP BY u.id, u.username, u.email
		 ORDER BY u.id`,
		excludeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Roles); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes an account, mapping a zero row count to not-found.
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user not found", httpx.ErrNotFound)
	}
	return nil
}
