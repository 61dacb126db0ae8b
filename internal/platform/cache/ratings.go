package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRatingMiss indicates no cached rating exists for the book.
var ErrRatingMiss = errors.New("platform/cache: rating miss")

// Ratings caches per-book average review ratings.
type Ratings struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatings constructs a Ratings cache with the given entry lifetime.
func NewRatings(client *redis.Client, ttl time.Duration) *Ratings {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Ratings{client: client, ttl: ttl}
}

// Get returns the cached average rating for a book.
func (c *Ratings) Get(ctx context.Context, bookID int64) (float64, error) {
	raw, err := c.client.Get(ctx, ratingKey(bookID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrRatingMiss
		}
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrRatingMiss
	}
	return value, nil
}

// Set stores the average rating for a book.
func (c *Ratings) Set(ctx context.Context, bookID int64, rating float64) error {
	return c.client.Set(ctx, ratingKey(bookID), strconv.FormatFloat(rating, 'f', 2, 64), c.ttl).Err()
}

// Invalidate drops the cached rating so the next refresh recomputes it.
func (c *Ratings) Invalidate(ctx context.Context, bookID int64) error {
	err := c.client.Del(ctx, ratingKey(bookID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func ratingKey(bookID int64) string {
	return fmt.Sprintf("book:rating:%d", bookID)
}
