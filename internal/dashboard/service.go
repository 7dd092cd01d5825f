package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTrendMonths = 6
	maxTrendMonths     = 24
)

// Service serves the dashboard aggregates through the versioned cache. Every
// public read goes through FetchJSON; the composite snapshot fans out its
// five sections in parallel.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	var out KPIs
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.KPIs(ctx)
	}, "dashboard", "kpis")
	return out, err
}

func (s *Service) DistribucionPorTipo(ctx context.Context) ([]TipoSlice, error) {
	out := []TipoSlice{}
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.DistribucionPorTipo(ctx)
	}, "dashboard", "tipos")
	return out, err
}

func (s *Service) MapaCalor(ctx context.Context) (MapaCalor, error) {
	var out MapaCalor
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.MapaCalorZonas(ctx)
	}, "dashboard", "mapa_calor")
	return out, err
}

func (s *Service) Tendencias(ctx context.Context, meses int) (Tendencias, error) {
	meses = clampMonths(meses)
	var out Tendencias
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.TendenciasMensuales(ctx, meses)
	}, "dashboard", "tendencias", strconv.Itoa(meses))
	return out, err
}

func (s *Service) DistribucionPorDistrito(ctx context.Context) ([]DistritoSlice, error) {
	out := []DistritoSlice{}
	err := s.cached(ctx, &out, func(ctx context.Context) (any, error) {
		return s.repo.DistribucionPorDistrito(ctx)
	}, "dashboard", "distritos")
	return out, err
}

// Snapshot assembles the composite management view. The five sections load
// concurrently; one failure cancels the rest.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.KPIs, err = s.KPIs(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.DistribucionTipos, err = s.DistribucionPorTipo(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.MapaCalor, err = s.MapaCalor(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Tendencias, err = s.Tendencias(gctx, defaultTrendMonths)
		return err
	})
	g.Go(func() (err error) {
		snap.DistribucionDistritos, err = s.DistribucionPorDistrito(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.Metadata = Metadata{
		FechaActualizacion: time.Now().UTC(),
		PeriodoTendencias:  fmt.Sprintf("Últimos %d meses", defaultTrendMonths),
		ZonaPrincipal:      "Huancayo",
	}
	return snap, nil
}

// Warm precomputes every aggregate so the next dashboard request hits warm
// cache entries. Used by the scheduled warmup job.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Snapshot(ctx)
	return err
}

func (s *Service) cached(ctx context.Context, dest any, loader func(context.Context) (any, error), keyParts ...string) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		s.logger.Warn("caché del dashboard no disponible", "error", err)
		value, lerr := loader(ctx)
		if lerr != nil {
			return lerr
		}
		return reencode(value, dest)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func clampMonths(meses int) int {
	if meses < 1 {
		return defaultTrendMonths
	}
	if meses > maxTrendMonths {
		return maxTrendMonths
	}
	return meses
}
