// Package admin exposes the user-management endpoints reserved for the
// Admin role.
package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leafmark/leafmark/internal/auth"
	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/users"
)

// Handler manages administrative endpoints over the users service.
type Handler struct {
	logger  *slog.Logger
	service *users.Service
	authmw  auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *users.Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers admin routes behind the Admin role gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Use(h.authmw.RequireRole(auth.RoleAdmin))
		r.Get("/users", h.listUsers)
		r.Delete("/user/{id}", h.deleteUser)
	})
}

type userDTO struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	list, err := h.service.ListOthers(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	dtos := make([]userDTO, 0, len(list))
	for _, u := range list {
		dtos = append(dtos, userDTO{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles})
	}
	httpx.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user ID is required")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user deleted", slog.Int64("user_id", id))
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}
