package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/shared"
)

const quickSearchMinLen = 2

// Handler exposes the /clientes endpoints. Destructive routes are guarded by
// the injected admin middleware.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	responder httpx.Responder
	admin     func(http.Handler) http.Handler
}

func NewHandler(logger *slog.Logger, service *Service, responder httpx.Responder, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, responder: responder, admin: admin}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/busqueda-rapida", h.quickSearch)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/estado", h.changeStatus)

	r.Group(func(r chi.Router) {
		r.Use(h.admin)
		r.Delete("/{id}", h.softDelete)
		r.Post("/{id}/restaurar", h.restore)
	})
}

// list defaults to showing active customers; estado=todos lifts the filter
// and estado=eliminado inspects the recycle bin.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Search:      q.Get("search"),
		TipoCliente: q.Get("tipo_cliente"),
		Zona:        q.Get("zona"),
		Estado:      q.Get("estado"),
		Page:        intParam(q.Get("page")),
		Limit:       intParam(q.Get("limit")),
	}
	if filters.Estado == "" {
		filters.Estado = EstadoActivo
	}

	items, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("listado de clientes falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener los clientes")
		return
	}
	httpx.Page(w, items, pagination)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Cliente no encontrado")
			return
		}
		h.logger.Error("obtener cliente falló", "id", id, "error", err)
		h.responder.Internal(w, err, "Error al obtener el cliente")
		return
	}
	httpx.OK(w, customer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CustomerInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	created, err := h.service.Create(r.Context(), in, identity)
	if err != nil {
		h.writeError(w, err, "Error al crear el cliente")
		return
	}
	httpx.Created(w, "Cliente creado exitosamente", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in CustomerUpdate
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	updated, err := h.service.Update(r.Context(), id, in, identity)
	if err != nil {
		h.writeError(w, err, "Error al actualizar el cliente")
		return
	}
	httpx.OKMessage(w, "Cliente actualizado exitosamente", updated)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in ChangeStatusInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	updated, err := h.service.ChangeStatus(r.Context(), id, in.Estado, identity)
	if err != nil {
		h.writeError(w, err, "Error al cambiar el estado del cliente")
		return
	}
	httpx.OKMessage(w, "Estado actualizado exitosamente", updated)
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	if _, err := h.service.SoftDelete(r.Context(), id, identity); err != nil {
		h.writeError(w, err, "Error al eliminar el cliente")
		return
	}
	httpx.OKMessage(w, "Cliente eliminado exitosamente", nil)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	restored, err := h.service.Restore(r.Context(), id, identity)
	if err != nil {
		h.writeError(w, err, "Error al restaurar el cliente")
		return
	}
	httpx.OKMessage(w, "Cliente restaurado exitosamente", restored)
}

// quickSearch answers autocomplete lookups. Terms shorter than two
// characters return an empty result without touching the database.
func (h *Handler) quickSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(term)) < quickSearchMinLen {
		httpx.OK(w, []CustomerSummary{})
		return
	}
	results, err := h.service.QuickSearch(r.Context(), term)
	if err != nil {
		h.logger.Error("búsqueda rápida falló", "error", err)
		h.responder.Internal(w, err, "Error en la búsqueda")
		return
	}
	httpx.OK(w, results)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.FailValidation(w, "Datos inválidos", verr.Messages)
	case errors.Is(err, httpx.ErrNotFound), errors.Is(err, httpx.ErrDuplicateDocument):
		// Write operations reject a missing row as a business error, not a
		// 404; only reads answer 404.
		h.responder.BusinessError(w, err, err.Error())
	default:
		h.logger.Error("operación sobre cliente falló", "error", err)
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

func intParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
