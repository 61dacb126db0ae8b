package reviews

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/leafmark/leafmark/internal/auth"
	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/shared"
)

// Handler manages review endpoints. All of them require authentication.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, validator: shared.NewValidator()}
}

// MountRoutes registers review routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Post("/", h.createReview)
		r.Delete("/{id}", h.deleteReview)
	})
}

type createRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=50"`
	Content string `json:"content" validate:"required,min=10,max=500"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	BookID  int64  `json:"bookId" validate:"required"`
}

type reviewDTO struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	BookID  int64  `json:"bookId"`
	UserID  int64  `json:"userId"`
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
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
	rev, err := h.service.Create(r.Context(), userID, req.Title, req.Content, req.Rating, req.BookID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Review created successfully",
		"review": reviewDTO{
			ID:      rev.ID,
			Title:   rev.Title,
			Content: rev.Content,
			Rating:  rev.Rating,
			BookID:  rev.BookID,
			UserID:  rev.OwnerID,
		},
	})
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "review ID is required")
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Review deleted successfully"})
}
