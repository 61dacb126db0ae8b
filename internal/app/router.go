package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leafmark/leafmark/internal/admin"
	"github.com/leafmark/leafmark/internal/auth"
	"github.com/leafmark/leafmark/internal/books"
	"github.com/leafmark/leafmark/internal/observability"
	"github.com/leafmark/leafmark/internal/reviews"
	"github.com/leafmark/leafmark/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	BooksHandler   *books.Handler
	ReviewsHandler *reviews.Handler
	AdminHandler   *admin.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Leafmark defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/books", params.BooksHandler.MountRoutes)
		r.Route("/reviews", params.ReviewsHandler.MountRoutes)
		r.Route("/admin", params.AdminHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
