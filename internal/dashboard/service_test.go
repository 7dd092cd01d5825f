package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/avecor-crm/avecor-crm/testing"
)

type countingRepo struct {
	kpiCalls   atomic.Int64
	totalCalls atomic.Int64
}

func (r *countingRepo) KPIs(ctx context.Context) (KPIs, error) {
	r.kpiCalls.Add(1)
	r.totalCalls.Add(1)
	return KPIs{TotalClientes: 42, ClientesActivos: 40, PorcentajeActivos: 95}, nil
}

func (r *countingRepo) DistribucionPorTipo(ctx context.Context) ([]TipoSlice, error) {
	r.totalCalls.Add(1)
	return []TipoSlice{{Tipo: "empresa", Nombre: "Empresa", Cantidad: 10, Porcentaje: 25}}, nil
}

func (r *countingRepo) MapaCalorZonas(ctx context.Context) (MapaCalor, error) {
	r.totalCalls.Add(1)
	zona := ZonaCalor{Zona: "centro", Nombre: "Huancayo Centro", Clientes: 12, NivelCalor: 5}
	return MapaCalor{Zonas: []ZonaCalor{zona}, TotalClientesZonas: 12, ZonaConMasClientes: zona}, nil
}

func (r *countingRepo) TendenciasMensuales(ctx context.Context, meses int) (Tendencias, error) {
	r.totalCalls.Add(1)
	return Tendencias{
		Mensual:        []TendenciaMes{{Mes: "2026-08", MesNombre: "Agosto", Nuevos: 5, Perdidos: 1, SaldoNeto: 4}},
		TotalesPeriodo: TotalesPeriodo{Nuevos: 5, Perdidos: 1, CrecimientoNeto: 4},
	}, nil
}

func (r *countingRepo) DistribucionPorDistrito(ctx context.Context) ([]DistritoSlice, error) {
	r.totalCalls.Add(1)
	return []DistritoSlice{{Distrito: "Huancayo", Zona: "centro", Clientes: 12, Porcentaje: 100}}, nil
}

func newCachedService(t *testing.T) (*Service, *countingRepo, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingRepo{}
	cache := NewCache(client, time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cache, logger), repo, cache
}

func TestKPIsServedFromCacheOnRepeat(t *testing.T) {
	service, repo, _ := newCachedService(t)
	ctx := context.Background()

	first, err := service.KPIs(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := service.KPIs(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first != second {
		t.Fatalf("cached value differs: %+v vs %+v", first, second)
	}
	if got := repo.kpiCalls.Load(); got != 1 {
		t.Fatalf("expected one repository hit, got %d", got)
	}
}

func TestBumpForcesReload(t *testing.T) {
	service, repo, cache := newCachedService(t)
	ctx := context.Background()

	if _, err := service.KPIs(ctx); err != nil {
		t.Fatalf("warm load: %v", err)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if _, err := service.KPIs(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := repo.kpiCalls.Load(); got != 2 {
		t.Fatalf("expected reload after bump, got %d repository hits", got)
	}
}

func TestSnapshotComposesEverySection(t *testing.T) {
	service, repo, _ := newCachedService(t)

	snap, err := service.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.KPIs.TotalClientes != 42 {
		t.Fatalf("unexpected kpis: %+v", snap.KPIs)
	}
	if len(snap.DistribucionTipos) != 1 || len(snap.DistribucionDistritos) != 1 {
		t.Fatalf("missing distribution sections: %+v", snap)
	}
	if snap.MapaCalor.ZonaConMasClientes.Zona != "centro" {
		t.Fatalf("unexpected heat map: %+v", snap.MapaCalor)
	}
	if snap.Metadata.ZonaPrincipal != "Huancayo" || snap.Metadata.PeriodoTendencias == "" {
		t.Fatalf("unexpected metadata: %+v", snap.Metadata)
	}
	if got := repo.totalCalls.Load(); got != 5 {
		t.Fatalf("expected 5 repository hits for a cold snapshot, got %d", got)
	}
}

func TestTrendMonthsAreClamped(t *testing.T) {
	if got := clampMonths(0); got != defaultTrendMonths {
		t.Fatalf("expected default for 0, got %d", got)
	}
	if got := clampMonths(120); got != maxTrendMonths {
		t.Fatalf("expected cap, got %d", got)
	}
	if got := clampMonths(12); got != 12 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestNilCacheDegradesToDirectLoads(t *testing.T) {
	repo := &countingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(repo, nil, logger)
	ctx := context.Background()

	if _, err := service.KPIs(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := service.KPIs(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := repo.kpiCalls.Load(); got != 2 {
		t.Fatalf("expected a repository hit per call without cache, got %d", got)
	}
}
