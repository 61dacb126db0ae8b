package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leafmark/leafmark/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for books.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns a page of books ordered by title.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.title, b.author, u.username
		 FROM books b JOIN users u ON u.id = b.owner_id
		 ORDER BY b.title ASC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.OwnerUsername); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Count returns the total number of books.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FindDetail fetches a book with its owner username and reviews.
func (r *Repository) FindDetail(ctx context.Context, id int64) (*Detail, error) {
	var d Detail
	err := r.pool.QueryRow(ctx,
		`SELECT b.id, b.title, b.author, b.owner_id, b.created_at, b.updated_at, u.username
		 FROM books b JOIN users u ON u.id = b.owner_id
		 WHERE b.id = $1`,
		id,
	).Scan(&d.ID, &d.Title, &d.Author, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt, &d.OwnerUsername)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: book not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT rv.id, rv.title, rv.content, rv.rating, u.username
		 FROM reviews rv JOIN users u ON u.id = rv.owner_id
		 WHERE rv.book_id = $1
		 ORDER BY rv.id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var entry ReviewEntry
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Content, &entry.Rating, &entry.ReviewerUsername); err != nil {
			return nil, err
		}
		d.Reviews = append(d.Reviews, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindOwner returns the owning user id for a book.
func (r *Repository) FindOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM books WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: book not found", httpx.ErrNotFound)
		}
		return 0, err
	}
	return ownerID, nil
}

// Create inserts a book owned by the given user.
func (r *Repository) Create(ctx context.Context, title, author string, ownerID int64) (*Book, error) {
	var b Book
	err := r.pool.QueryRow(ctx,
		`INSERT INTO books (title, author, owner_id) VALUES ($1, $2, $3)
		 RETURNING id, title, author, owner_id, created_at, updated_at`,
		title, author, ownerID,
	).Scan(&b.ID, &b.Title, &b.Author, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Update applies a partial update and returns the new summary projection.
func (r *Repository) Update(ctx context.Context, id int64, fields UpdateFields) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx,
		`UPDATE books SET
			title = COALESCE($2, title),
			author = COALESCE($3, author),
			updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, author, (SELECT username FROM users WHERE users.id = books.owner_id)`,
		id, fields.Title, fields.Author,
	).Scan(&s.ID, &s.Title, &s.Author, &s.OwnerUsername)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: book not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a book. A zero row count reports not-found explicitly so
// a racing delete never surfaces as a server error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: book not found", httpx.ErrNotFound)
	}
	return nil
}
