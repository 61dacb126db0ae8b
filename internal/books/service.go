package books

import (
	"context"
	"fmt"

	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/shared"
)

const (
	defaultPageSize = 8
	maxPageSize     = 15
)

// RepositoryPort defines data access methods for books.
type RepositoryPort interface {
	List(ctx context.Context, offset, limit int) ([]Summary, error)
	Count(ctx context.Context) (int, error)
	FindDetail(ctx context.Context, id int64) (*Detail, error)
	FindOwner(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, title, author string, ownerID int64) (*Book, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Summary, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles book business logic, including the ownership checks
// that gate every mutation.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of books plus pagination metadata.
func (s *Service) List(ctx context.Context, page, limit int) ([]Summary, shared.Pagination, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if page < 1 {
		return nil, shared.Pagination{}, fmt.Errorf("%w: page number must be greater than 0", httpx.ErrValidation)
	}
	if limit < 1 {
		return nil, shared.Pagination{}, fmt.Errorf("%w: limit must be greater than 0", httpx.ErrValidation)
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	summaries, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return summaries, shared.NewPagination(page, limit, total), nil
}

// Get fetches a single book with its reviews.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.FindDetail(ctx, id)
}

// Create stores a new book owned by the acting user.
func (s *Service) Create(ctx context.Context, ownerID int64, title, author string) (*Book, error) {
	return s.repo.Create(ctx, title, author, ownerID)
}

// Update applies a partial update after verifying the acting user owns
// the book. The mutation never proceeds on an ownership mismatch.
func (s *Service) Update(ctx context.Context, actorID, id int64, fields UpdateFields) (*Summary, error) {
	if fields.Empty() {
		return nil, fmt.Errorf("%w: no new data provided to update the book", httpx.ErrValidation)
	}
	ownerID, err := s.repo.FindOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != actorID {
		return nil, fmt.Errorf("%w: you are not authorized to update this book", httpx.ErrForbidden)
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete removes a book after the same ownership check.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	ownerID, err := s.repo.FindOwner(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return fmt.Errorf("%w: you are not authorized to delete this book", httpx.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}
