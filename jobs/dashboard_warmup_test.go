package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avecor-crm/avecor-crm/internal/dashboard"
	"github.com/avecor-crm/avecor-crm/internal/observability"
	_ "github.com/avecor-crm/avecor-crm/testing"
)

var errAggregates = errors.New("agregados no disponibles")

type brokenDashboardRepo struct{}

func (brokenDashboardRepo) KPIs(context.Context) (dashboard.KPIs, error) {
	return dashboard.KPIs{}, errAggregates
}

func (brokenDashboardRepo) DistribucionPorTipo(context.Context) ([]dashboard.TipoSlice, error) {
	return nil, errAggregates
}

func (brokenDashboardRepo) MapaCalorZonas(context.Context) (dashboard.MapaCalor, error) {
	return dashboard.MapaCalor{}, errAggregates
}

func (brokenDashboardRepo) TendenciasMensuales(context.Context, int) (dashboard.Tendencias, error) {
	return dashboard.Tendencias{}, errAggregates
}

func (brokenDashboardRepo) DistribucionPorDistrito(context.Context) ([]dashboard.DistritoSlice, error) {
	return nil, errAggregates
}

type healthyDashboardRepo struct{}

func (healthyDashboardRepo) KPIs(context.Context) (dashboard.KPIs, error) {
	return dashboard.KPIs{TotalClientes: 1, ClientesActivos: 1}, nil
}

func (healthyDashboardRepo) DistribucionPorTipo(context.Context) ([]dashboard.TipoSlice, error) {
	return []dashboard.TipoSlice{}, nil
}

func (healthyDashboardRepo) MapaCalorZonas(context.Context) (dashboard.MapaCalor, error) {
	return dashboard.MapaCalor{}, nil
}

func (healthyDashboardRepo) TendenciasMensuales(context.Context, int) (dashboard.Tendencias, error) {
	return dashboard.Tendencias{}, nil
}

func (healthyDashboardRepo) DistribucionPorDistrito(context.Context) ([]dashboard.DistritoSlice, error) {
	return []dashboard.DistritoSlice{}, nil
}

func newWarmupJob(repo dashboard.Repository, metrics *observability.Metrics) *DashboardWarmupJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := dashboard.NewService(repo, nil, logger)
	return NewDashboardWarmupJob(svc, nil, logger, metrics)
}

func scrapeMetrics(t *testing.T, metrics *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestWarmupFailureSurfacesErrorAndMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	job := newWarmupJob(brokenDashboardRepo{}, metrics)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); !errors.Is(err, errAggregates) {
		t.Fatalf("expected the aggregate error to reach the caller, got %v", err)
	}

	body := scrapeMetrics(t, metrics)
	if !strings.Contains(body, `avecor_jobs_failures_total{job="dashboard:warmup"} 1`) {
		t.Fatalf("expected a recorded failure, got:\n%s", body)
	}
	if !strings.Contains(body, `avecor_jobs_total{job="dashboard:warmup",status="failure"} 1`) {
		t.Fatalf("expected a failure-status run, got:\n%s", body)
	}
}

func TestWarmupSuccessRecordsRun(t *testing.T) {
	metrics := observability.NewMetrics()
	job := newWarmupJob(healthyDashboardRepo{}, metrics)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("warmup: %v", err)
	}

	body := scrapeMetrics(t, metrics)
	if !strings.Contains(body, `avecor_jobs_total{job="dashboard:warmup",status="success"} 1`) {
		t.Fatalf("expected a success-status run, got:\n%s", body)
	}
}
