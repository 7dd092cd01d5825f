package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/shared"
)

// Middleware guards routes with bearer token verification and role checks.
type Middleware struct {
	Logger  *slog.Logger
	Service *Service
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(logger *slog.Logger, service *Service) *Middleware {
	return &Middleware{Logger: logger, Service: service}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token and stores the identity in context.
// The failure message is always the same generic 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			httpx.Fail(w, http.StatusUnauthorized, "Token no proporcionado")
			return
		}
		identity, err := m.Service.Verify(r.Context(), token)
		if err != nil {
			if err != ErrInvalidToken && m.Logger != nil {
				m.Logger.Error("verify token", slog.Any("error", err))
			}
			httpx.Fail(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin role. It must run inside
// RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			httpx.Fail(w, http.StatusForbidden, "Acceso denegado: requiere rol ADMIN")
			return
		}
		next.ServeHTTP(w, r)
	})
}
