package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leafmark/leafmark/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for reviews.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a review. A foreign-key violation on book_id means the
// book vanished between the existence check and the insert; it maps to
// not-found rather than a server error.
func (r *Repository) Create(ctx context.Context, title, content string, rating int, bookID, ownerID int64) (*Review, error) {
	var rev Review
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (title, content, rating, book_id, owner_id) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, content, rating, book_id, owner_id, created_at`,
		title, content, rating, bookID, ownerID,
	).Scan(&rev.ID, &rev.Title, &rev.Content, &rev.Rating, &rev.BookID, &rev.OwnerID, &rev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("%w: book not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &rev, nil
}

// BookExists reports whether the target book is present.
func (r *Repository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindOwner returns the owning user id and book id for a review.
func (r *Repository) FindOwner(ctx context.Context, id int64) (ownerID, bookID int64, err error) {
	err = r.pool.QueryRow(ctx, `SELECT owner_id, book_id FROM reviews WHERE id = $1`, id).Scan(&ownerID, &bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("%w: review not found", httpx.ErrNotFound)
		}
		return 0, 0, err
	}
	return ownerID, bookID, nil
}

// Delete removes a review, mapping a zero row count to not-found.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: review not found", httpx.ErrNotFound)
	}
	return nil
}
