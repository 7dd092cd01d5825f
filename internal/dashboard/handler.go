package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
)

// Handler exposes the /dashboard endpoints: the composite management view
// plus one route per section.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	responder httpx.Responder
}

func NewHandler(logger *slog.Logger, service *Service, responder httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, responder: responder}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/gerencial", h.gerencial)
	r.Get("/kpis", h.kpis)
	r.Get("/distribucion-tipos", h.distribucionTipos)
	r.Get("/mapa-calor", h.mapaCalor)
	r.Get("/tendencias", h.tendencias)
	r.Get("/distritos", h.distritos)
}

func (h *Handler) gerencial(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("dashboard gerencial falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener datos del dashboard gerencial")
		return
	}
	httpx.OKMessage(w, "Dashboard gerencial obtenido correctamente", snap)
}

func (h *Handler) kpis(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.logger.Error("kpis del dashboard fallaron", "error", err)
		h.responder.Internal(w, err, "Error al obtener KPIs")
		return
	}
	httpx.OK(w, kpis)
}

func (h *Handler) distribucionTipos(w http.ResponseWriter, r *http.Request) {
	distribucion, err := h.service.DistribucionPorTipo(r.Context())
	if err != nil {
		h.logger.Error("distribución por tipos falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener distribución por tipos")
		return
	}
	httpx.OK(w, distribucion)
}

func (h *Handler) mapaCalor(w http.ResponseWriter, r *http.Request) {
	mapa, err := h.service.MapaCalor(r.Context())
	if err != nil {
		h.logger.Error("mapa de calor falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener mapa de calor")
		return
	}
	httpx.OK(w, mapa)
}

func (h *Handler) tendencias(w http.ResponseWriter, r *http.Request) {
	meses, _ := strconv.Atoi(r.URL.Query().Get("meses"))
	tendencias, err := h.service.Tendencias(r.Context(), meses)
	if err != nil {
		h.logger.Error("tendencias fallaron", "error", err)
		h.responder.Internal(w, err, "Error al obtener tendencias")
		return
	}
	httpx.OK(w, tendencias)
}

func (h *Handler) distritos(w http.ResponseWriter, r *http.Request) {
	distritos, err := h.service.DistribucionPorDistrito(r.Context())
	if err != nil {
		h.logger.Error("distribución por distritos falló", "error", err)
		h.responder.Internal(w, err, "Error al obtener distribución por distritos")
		return
	}
	httpx.OK(w, distritos)
}
