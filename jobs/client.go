package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueRefreshBookRating enqueues a rating recomputation for the book.
func (c *Client) EnqueueRefreshBookRating(ctx context.Context, bookID int64) error {
	task, err := NewRefreshBookRatingTask(RefreshBookRatingPayload{BookID: bookID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.client.Close()
}
