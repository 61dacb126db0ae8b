package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leafmark/leafmark/internal/platform/httpx"
)

// RepositoryPort defines data access methods for reviews.
type RepositoryPort interface {
	Create(ctx context.Context, title, content string, rating int, bookID, ownerID int64) (*Review, error)
	BookExists(ctx context.Context, bookID int64) (bool, error)
	FindOwner(ctx context.Context, id int64) (ownerID, bookID int64, err error)
	Delete(ctx context.Context, id int64) error
}

// RatingEnqueuer schedules a background recomputation of a book's
// average rating.
type RatingEnqueuer interface {
	EnqueueRefreshBookRating(ctx context.Context, bookID int64) error
}

// Service handles review business logic and the ownership check gating
// deletion.
type Service struct {
	repo   RepositoryPort
	jobs   RatingEnqueuer
	logger *slog.Logger
}

// NewService builds a Service instance. jobs may be nil, in which case
// rating refreshes are skipped.
func NewService(repo RepositoryPort, jobs RatingEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, jobs: jobs, logger: logger}
}

// Create stores a review owned by the acting user.
func (s *Service) Create(ctx context.Context, ownerID int64, title, content string, rating int, bookID int64) (*Review, error) {
	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: book not found", httpx.ErrNotFound)
	}
	rev, err := s.repo.Create(ctx, title, content, rating, bookID, ownerID)
	if err != nil {
		return nil, err
	}
	s.refreshRating(ctx, bookID)
	return rev, nil
}

// Delete removes a review after verifying the acting user owns it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	ownerID, bookID, err := s.repo.FindOwner(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return fmt.Errorf("%w: you are not authorized to delete this review", httpx.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshRating(ctx, bookID)
	return nil
}

// refreshRating enqueues the background recomputation. Failures are
// logged, not surfaced: the review mutation has already committed.
func (s *Service) refreshRating(ctx context.Context, bookID int64) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueRefreshBookRating(ctx, bookID); err != nil && s.logger != nil {
		s.logger.Warn("enqueue rating refresh", slog.Int64("book_id", bookID), slog.Any("error", err))
	}
}
