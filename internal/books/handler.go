package books

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/leafmark/leafmark/internal/auth"
	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/shared"
)

// RatingSource yields cached average ratings; a miss is not an error the
// client sees, the field is simply omitted.
type RatingSource interface {
	Get(ctx context.Context, bookID int64) (float64, error)
}

// Handler manages book endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	ratings   RatingSource
	authmw    auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance. ratings may be nil.
func NewHandler(logger *slog.Logger, service *Service, ratings RatingSource, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, ratings: ratings, authmw: authmw, validator: shared.NewValidator()}
}

// MountRoutes registers book routes. Listing and fetching are public;
// mutations require an authenticated principal.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listBooks)
	r.Get("/{id}", h.getBook)
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Post("/", h.createBook)
		r.Put("/{id}", h.updateBook)
		r.Delete("/{id}", h.deleteBook)
	})
}

type ownerRef struct {
	Username string `json:"username"`
}

type summaryDTO struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	User   ownerRef `json:"user"`
}

type listMeta struct {
	TotalBooks  int `json:"totalBooks"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
}

type listResponse struct {
	Data []summaryDTO `json:"data"`
	Meta listMeta     `json:"meta"`
}

type reviewDTO struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Rating  int      `json:"rating"`
	User    ownerRef `json:"user"`
}

type detailDTO struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	User          ownerRef    `json:"user"`
	AverageRating *float64    `json:"averageRating,omitempty"`
	Reviews       []reviewDTO `json:"reviews"`
}

type createRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=100"`
	Author string `json:"author" validate:"required,min=2,max=50"`
}

type updateRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=100"`
	Author *string `json:"author" validate:"omitempty,min=2,max=50"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	summaries, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("list books failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	data := make([]summaryDTO, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, summaryDTO{ID: s.ID, Title: s.Title, Author: s.Author, User: ownerRef{Username: s.OwnerUsername}})
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Data: data,
		Meta: listMeta{
			TotalBooks:  pagination.Total,
			TotalPages:  pagination.TotalPages,
			CurrentPage: pagination.Page,
			PerPage:     pagination.PerPage,
		},
	})
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dto := detailDTO{
		ID:      detail.ID,
		Title:   detail.Title,
		Author:  detail.Author,
		User:    ownerRef{Username: detail.OwnerUsername},
		Reviews: make([]reviewDTO, 0, len(detail.Reviews)),
	}
	for _, entry := range detail.Reviews {
		dto.Reviews = append(dto.Reviews, reviewDTO{
			ID:      entry.ID,
			Title:   entry.Title,
			Content: entry.Content,
			Rating:  entry.Rating,
			User:    ownerRef{Username: entry.ReviewerUsername},
		})
	}
	if h.ratings != nil {
		if rating, err := h.ratings.Get(r.Context(), id); err == nil {
			dto.AverageRating = &rating
		}
	}
	httpx.JSON(w, http.StatusOK, dto)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, shared.ValidationMessages(err))
		return
	}
	book, err := h.service.Create(r.Context(), userID, req.Title, req.Author)
	if err != nil {
		h.logger.Error("create book failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":     book.ID,
		"title":  book.Title,
		"author": book.Author,
		"userId": book.OwnerID,
	})
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	id, okID := h.bookID(w, r)
	if !okID {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, shared.ValidationMessages(err))
		return
	}
	summary, err := h.service.Update(r.Context(), userID, id, UpdateFields{Title: req.Title, Author: req.Author})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Book updated successfully",
		"book": summaryDTO{
			ID:     summary.ID,
			Title:  summary.Title,
			Author: summary.Author,
			User:   ownerRef{Username: summary.OwnerUsername},
		},
	})
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	id, okID := h.bookID(w, r)
	if !okID {
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Book deleted successfully"})
}

// bookID parses the path id, responding with a validation problem when it
// is absent or non-numeric.
func (h *Handler) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "book ID is required")
		return 0, false
	}
	return id, true
}
