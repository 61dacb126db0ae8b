package books

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/auth"
	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/token"
)

type stubRatings struct {
	rating float64
	err    error
}

func (s stubRatings) Get(ctx context.Context, bookID int64) (float64, error) {
	return s.rating, s.err
}

type handlerFixture struct {
	repo   *mockRepository
	codec  *token.Codec
	router chi.Router
}

func newHandlerFixture(t *testing.T, ratings RatingSource) *handlerFixture {
	t.Helper()
	repo := newMockRepository()
	codec := token.NewCodec("books-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo), ratings, auth.Middleware{Codec: codec})
	r := chi.NewRouter()
	r.Route("/books", h.MountRoutes)
	return &handlerFixture{repo: repo, codec: codec, router: r}
}

func (f *handlerFixture) request(t *testing.T, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		signed, err := f.codec.Issue(userID, []string{auth.RoleMember})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListBooksPublic(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 1)
	require.NoError(t, err)

	rec := f.request(t, http.MethodGet, "/books", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []summaryDTO `json:"data"`
		Meta listMeta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "dune", resp.Data[0].Title)
	assert.Equal(t, "owner", resp.Data[0].User.Username)
	assert.Equal(t, 1, resp.Meta.TotalBooks)
	assert.Equal(t, 8, resp.Meta.PerPage)
}

func TestListBooksBadPage(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodGet, "/books?page=-1", "", 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBookWithRating(t *testing.T) {
	f := newHandlerFixture(t, stubRatings{rating: 4.5})
	book, err := f.repo.Create(context.Background(), "dune", "herbert", 1)
	require.NoError(t, err)

	rec := f.request(t, http.MethodGet, "/books/1", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var dto struct {
		ID            int64    `json:"id"`
		AverageRating *float64 `json:"averageRating"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, book.ID, dto.ID)
	require.NotNil(t, dto.AverageRating)
	assert.InDelta(t, 4.5, *dto.AverageRating, 0.001)
}

func TestGetBookRatingMissOmitsField(t *testing.T) {
	f := newHandlerFixture(t, stubRatings{err: httpx.ErrNotFound})
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 1)
	require.NoError(t, err)

	rec := f.request(t, http.MethodGet, "/books/1", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "averageRating")
}

func TestGetBookInvalidID(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodGet, "/books/abc", "", 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBookNotFound(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodGet, "/books/99", "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookRequiresToken(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodPost, "/books", `{"title":"dune","author":"herbert"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBookValidation(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodPost, "/books", `{"title":"","author":"x"}`, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.NotEmpty(t, problem.Errors)
}

func TestCreateBookSuccess(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.request(t, http.MethodPost, "/books", `{"title":"dune","author":"herbert"}`, 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		UserID int64  `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dune", resp.Title)
	assert.Equal(t, int64(7), resp.UserID)
}

func TestUpdateBookEmptyBody(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 7)
	require.NoError(t, err)

	rec := f.request(t, http.MethodPut, "/books/1", `{}`, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.Detail, "no new data provided")
}

func TestUpdateBookForbiddenForNonOwner(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 7)
	require.NoError(t, err)

	rec := f.request(t, http.MethodPut, "/books/1", `{"title":"stolen"}`, 8)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateBookByOwner(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 7)
	require.NoError(t, err)

	rec := f.request(t, http.MethodPut, "/books/1", `{"title":"dune messiah"}`, 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book updated successfully")
	assert.Equal(t, "dune messiah", f.repo.books[1].Title)
}

func TestDeleteBookLadder(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.repo.Create(context.Background(), "dune", "herbert", 7)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, f.request(t, http.MethodDelete, "/books/1", "", 0).Code)
	assert.Equal(t, http.StatusBadRequest, f.request(t, http.MethodDelete, "/books/abc", "", 7).Code)
	assert.Equal(t, http.StatusForbidden, f.request(t, http.MethodDelete, "/books/1", "", 8).Code)
	assert.Equal(t, http.StatusOK, f.request(t, http.MethodDelete, "/books/1", "", 7).Code)
	assert.Equal(t, http.StatusNotFound, f.request(t, http.MethodDelete, "/books/1", "", 7).Code)
}
