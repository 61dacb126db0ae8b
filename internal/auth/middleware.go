package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/token"
)

// Middleware wires the authentication gate and the role gate.
//
// The token is verified exactly once per request; the resulting principal
// exposes both the role set and the bare user id to downstream handlers.
type Middleware struct {
	Codec  *token.Codec
	Logger *slog.Logger
}

// Authenticate extracts and verifies the bearer token and attaches the
// principal to request context. Requests without a usable identity are
// rejected with 401 before any handler runs.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication token required")
			return
		}
		claims, err := m.Codec.Verify(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token rejected", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		principal := Principal{UserID: claims.UserID, Roles: claims.Roles}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRole ensures the authenticated principal carries the named role.
// It must be mounted after Authenticate.
func (m Middleware) RequireRole(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if !principal.HasRole(name) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", fmt.Sprintf("requires %s role", name))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return "", false
	}
	return raw, true
}
