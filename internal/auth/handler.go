package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	responder httpx.Responder
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, responder httpx.Responder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		responder: responder,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Usuario y contraseña son obligatorios")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Usuario y contraseña son obligatorios")
		return
	}

	token, identity, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == ErrInvalidCredentials {
			httpx.Fail(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		h.responder.Internal(w, err, "Error interno del servidor")
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Login exitoso",
		Data:    loginResponse{Token: token, User: identity},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.logger.Warn("logout failed", slog.Any("error", err))
	}
	httpx.OKMessage(w, "Sesión cerrada", nil)
}
