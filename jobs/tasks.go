// Package jobs contains the background tasks that keep derived data, such
// as book average ratings, up to date.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leafmark/leafmark/internal/platform/cache"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRefreshBookRating recomputes a book's average review rating.
	TaskTypeRefreshBookRating = "review:refresh_rating"
)

// RefreshBookRatingPayload identifies the book whose rating changed.
type RefreshBookRatingPayload struct {
	BookID int64 `json:"book_id"`
}

// NewRefreshBookRatingTask constructs an Asynq task.
func NewRefreshBookRatingTask(payload RefreshBookRatingPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRefreshBookRating, data), nil
}

// RatingRefresher recomputes average ratings into the ratings cache.
type RatingRefresher struct {
	Pool    *pgxpool.Pool
	Ratings *cache.Ratings
	Logger  *slog.Logger
}

// HandleRefreshBookRating processes TaskTypeRefreshBookRating tasks.
// A book with no remaining reviews has its cache entry dropped.
func (r *RatingRefresher) HandleRefreshBookRating(ctx context.Context, t *asynq.Task) error {
	var payload RefreshBookRatingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	var average float64
	err := r.Pool.QueryRow(ctx, `SELECT AVG(rating)::float8 FROM reviews WHERE book_id = $1 HAVING COUNT(*) > 0`, payload.BookID).Scan(&average)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.Ratings.Invalidate(ctx, payload.BookID)
		}
		return err
	}
	if err := r.Ratings.Set(ctx, payload.BookID, average); err != nil {
		return err
	}
	if r.Logger != nil {
		r.Logger.Debug("rating refreshed", slog.Int64("book_id", payload.BookID), slog.Float64("rating", average))
	}
	return nil
}
