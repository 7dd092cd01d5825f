package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultEvolutionMonths = 12
	maxEvolutionMonths     = 36
	defaultTopLimit        = 10
	overviewTopLimit       = 5
	maxTopLimit            = 100
)

// Service runs the reporting queries; the overview assembles every report
// concurrently.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ClientesPorZona(ctx context.Context) (ZonaReportResult, error) {
	return s.repo.ClientesPorZona(ctx)
}

func (s *Service) ClientesPorTipo(ctx context.Context) (TipoReportResult, error) {
	return s.repo.ClientesPorTipoYEstado(ctx)
}

func (s *Service) Preferencias(ctx context.Context) (PreferenciasReport, error) {
	return s.repo.PreferenciasClientes(ctx)
}

func (s *Service) EvolucionMensual(ctx context.Context, meses int) ([]EvolucionMes, error) {
	return s.repo.EvolucionMensual(ctx, clampRange(meses, defaultEvolutionMonths, maxEvolutionMonths))
}

func (s *Service) TopClientes(ctx context.Context, limite int) ([]TopCliente, error) {
	return s.repo.TopClientes(ctx, clampRange(limite, defaultTopLimit, maxTopLimit))
}

// Todos builds the overview bundle. generadoPor stamps the requesting user
// into the metadata.
func (s *Service) Todos(ctx context.Context, generadoPor string) (FullReport, error) {
	var full FullReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		full.ClientesPorZona, err = s.repo.ClientesPorZona(gctx)
		return err
	})
	g.Go(func() (err error) {
		full.ClientesPorTipo, err = s.repo.ClientesPorTipoYEstado(gctx)
		return err
	})
	g.Go(func() (err error) {
		full.Preferencias, err = s.repo.PreferenciasClientes(gctx)
		return err
	})
	g.Go(func() (err error) {
		full.EvolucionMensual, err = s.repo.EvolucionMensual(gctx, defaultEvolutionMonths)
		return err
	})
	g.Go(func() (err error) {
		full.TopClientes, err = s.repo.TopClientes(gctx, overviewTopLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return FullReport{}, err
	}
	full.Metadata = ReportMetadata{
		FechaGeneracion: time.Now().UTC(),
		GeneradoPor:     generadoPor,
	}
	return full, nil
}

func clampRange(n, def, max int) int {
	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
