package reviews

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/platform/httpx"
)

type mockRepository struct {
	reviews map[int64]*Review
	books   map[int64]bool
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{reviews: make(map[int64]*Review), books: make(map[int64]bool), nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, title, content string, rating int, bookID, ownerID int64) (*Review, error) {
	rev := &Review{ID: m.nextID, Title: title, Content: content, Rating: rating, BookID: bookID, OwnerID: ownerID}
	m.nextID++
	m.reviews[rev.ID] = rev
	return rev, nil
}

func (m *mockRepository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	return m.books[bookID], nil
}

func (m *mockRepository) FindOwner(ctx context.Context, id int64) (int64, int64, error) {
	rev, ok := m.reviews[id]
	if !ok {
		return 0, 0, fmt.Errorf("%w: review not found", httpx.ErrNotFound)
	}
	return rev.OwnerID, rev.BookID, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return fmt.Errorf("%w: review not found", httpx.ErrNotFound)
	}
	delete(m.reviews, id)
	return nil
}

type mockEnqueuer struct {
	enqueued []int64
	err      error
}

func (m *mockEnqueuer) EnqueueRefreshBookRating(ctx context.Context, bookID int64) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, bookID)
	return nil
}

func TestCreateReviewMissingBook(t *testing.T) {
	repo := newMockRepository()
	jobs := &mockEnqueuer{}
	svc := NewService(repo, jobs, nil)

	_, err := svc.Create(context.Background(), 1, "great", "wonderful book overall", 5, 99)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.Empty(t, jobs.enqueued)
}

func TestCreateReviewEnqueuesRefresh(t *testing.T) {
	repo := newMockRepository()
	repo.books[10] = true
	jobs := &mockEnqueuer{}
	svc := NewService(repo, jobs, nil)

	rev, err := svc.Create(context.Background(), 1, "great", "wonderful book overall", 5, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rev.BookID)
	assert.Equal(t, int64(1), rev.OwnerID)
	assert.Equal(t, []int64{10}, jobs.enqueued)
}

func TestCreateReviewSurvivesEnqueueFailure(t *testing.T) {
	repo := newMockRepository()
	repo.books[10] = true
	jobs := &mockEnqueuer{err: errors.New("queue down")}
	svc := NewService(repo, jobs, nil)

	_, err := svc.Create(context.Background(), 1, "great", "wonderful book overall", 5, 10)
	assert.NoError(t, err)
}

func TestDeleteReviewNotFound(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)

	err := svc.Delete(context.Background(), 1, 99)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteReviewOwnershipMismatch(t *testing.T) {
	repo := newMockRepository()
	repo.books[10] = true
	jobs := &mockEnqueuer{}
	svc := NewService(repo, jobs, nil)

	rev, err := svc.Create(context.Background(), 1, "great", "wonderful book overall", 5, 10)
	require.NoError(t, err)
	jobs.enqueued = nil

	err = svc.Delete(context.Background(), 2, rev.ID)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Contains(t, repo.reviews, rev.ID)
	assert.Empty(t, jobs.enqueued)
}

func TestDeleteReviewByOwner(t *testing.T) {
	repo := newMockRepository()
	repo.books[10] = true
	jobs := &mockEnqueuer{}
	svc := NewService(repo, jobs, nil)

	rev, err := svc.Create(context.Background(), 1, "great", "wonderful book overall", 5, 10)
	require.NoError(t, err)
	jobs.enqueued = nil

	require.NoError(t, svc.Delete(context.Background(), 1, rev.ID))
	assert.NotContains(t, repo.reviews, rev.ID)
	assert.Equal(t, []int64{10}, jobs.enqueued)
}
