package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

// Handler exposes the /usuarios endpoints. The router mounts the whole group
// behind the admin middleware.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	responder httpx.Responder
}

func NewHandler(logger *slog.Logger, service *Service, responder httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, responder: responder}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/estado", h.setActive)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("listado de usuarios falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener los usuarios")
		return
	}
	httpx.OK(w, accounts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	account, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err, "Error al crear el usuario")
		return
	}
	httpx.Created(w, "Usuario creado exitosamente", account)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	account, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err, "Error al actualizar el usuario")
		return
	}
	httpx.OKMessage(w, "Usuario actualizado exitosamente", account)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in ToggleInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	account, err := h.service.SetActive(r.Context(), id, in.Estado)
	if err != nil {
		h.writeError(w, err, "Error al cambiar el estado del usuario")
		return
	}
	httpx.OKMessage(w, "Estado actualizado exitosamente", account)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var verr *ErrValidation
	switch {
	case errors.As(err, &verr):
		httpx.Fail(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrDuplicateUsername):
		httpx.Fail(w, http.StatusBadRequest, "El usuario ya existe")
	case errors.Is(err, httpx.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Usuario no encontrado")
	default:
		h.logger.Error("operación sobre usuario falló", "error", err)
		h.responder.Internal(w, err, fallback)
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.Fail(w, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return id, true
}
