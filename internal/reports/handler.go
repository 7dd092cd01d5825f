package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/shared"
)

// Handler exposes the /reportes endpoints plus CSV downloads.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	exporter  *Exporter
	responder httpx.Responder
}

func NewHandler(logger *slog.Logger, service *Service, exporter *Exporter, responder httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, exporter: exporter, responder: responder}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/todos", h.todos)
	r.Get("/clientes-por-zona", h.clientesPorZona)
	r.Get("/clientes-por-zona/csv", h.clientesPorZonaCSV)
	r.Get("/clientes-por-tipo", h.clientesPorTipo)
	r.Get("/preferencias", h.preferencias)
	r.Get("/evolucion-mensual", h.evolucionMensual)
	r.Get("/top-clientes", h.topClientes)
	r.Get("/top-clientes/csv", h.topClientesCSV)
}

func (h *Handler) todos(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	full, err := h.service.Todos(r.Context(), identity.Username)
	if err != nil {
		h.logger.Error("reporte completo falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener todos los reportes")
		return
	}
	httpx.OK(w, full)
}

func (h *Handler) clientesPorZona(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClientesPorZona(r.Context())
	if err != nil {
		h.logger.Error("reporte por zona falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener reporte de clientes por zona")
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) clientesPorZonaCSV(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClientesPorZona(r.Context())
	if err != nil {
		h.logger.Error("reporte por zona falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener reporte de clientes por zona")
		return
	}
	payload, err := h.exporter.WriteZonasCSV(result)
	if err != nil {
		h.logger.Error("exportar csv falló", "error", err)
		h.responder.Internal(w, err, "Error al generar el archivo CSV")
		return
	}
	writeCSV(w, "clientes_por_zona.csv", payload)
}

func (h *Handler) clientesPorTipo(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClientesPorTipo(r.Context())
	if err != nil {
		h.logger.Error("reporte por tipo falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener reporte de clientes por tipo")
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) preferencias(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Preferencias(r.Context())
	if err != nil {
		h.logger.Error("reporte de preferencias falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener reporte de preferencias")
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) evolucionMensual(w http.ResponseWriter, r *http.Request) {
	meses, _ := strconv.Atoi(r.URL.Query().Get("meses"))
	result, err := h.service.EvolucionMensual(r.Context(), meses)
	if err != nil {
		h.logger.Error("evolución mensual falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener evolución mensual")
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) topClientes(w http.ResponseWriter, r *http.Request) {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	result, err := h.service.TopClientes(r.Context(), limite)
	if err != nil {
		h.logger.Error("top clientes falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener top clientes")
		return
	}
	httpx.OK(w, result)
}

func (h *Handler) topClientesCSV(w http.ResponseWriter, r *http.Request) {
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))
	result, err := h.service.TopClientes(r.Context(), limite)
	if err != nil {
		h.logger.Error("top clientes falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener top clientes")
		return
	}
	payload, err := h.exporter.WriteTopClientesCSV(result)
	if err != nil {
		h.logger.Error("exportar csv falló", "error", err)
		h.responder.Internal(w, err, "Error al generar el archivo CSV")
		return
	}
	writeCSV(w, "top_clientes.csv", payload)
}

func writeCSV(w http.ResponseWriter, filename string, payload []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(payload)
}
