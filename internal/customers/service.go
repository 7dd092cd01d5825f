package customers

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/avecor-crm/avecor-crm/internal/shared"
)

// Invalidator marks derived read models (dashboard aggregates) stale after a
// customer write. A nil Invalidator disables the signal.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service validates payloads, delegates persistence and keeps the dashboard
// cache honest on the write path.
type Service struct {
	repo        Repository
	invalidator Invalidator
	logger      *slog.Logger
	validate    *validator.Validate
}

func NewService(repo Repository, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		validate:    newValidator(),
	}
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]Customer, shared.Pagination, error) {
	f.Search = foldSearchTerm(f.Search)
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (CustomerWithHistory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CustomerInput, identity shared.Identity) (Customer, error) {
	if err := s.validate.Struct(in); err != nil {
		return Customer{}, &ValidationError{Messages: collectMessages(err)}
	}
	created, err := s.repo.Create(ctx, in, identity.UserID)
	if err != nil {
		return Customer{}, err
	}
	s.bump(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in CustomerUpdate, identity shared.Identity) (Customer, error) {
	if err := s.validate.Struct(in); err != nil {
		return Customer{}, &ValidationError{Messages: collectMessages(err)}
	}
	updated, err := s.repo.Update(ctx, id, in, identity.UserID)
	if err != nil {
		return Customer{}, err
	}
	s.bump(ctx)
	return updated, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id int64, estado string, identity shared.Identity) (Customer, error) {
	switch estado {
	case EstadoActivo, EstadoInactivo, EstadoEliminado:
	default:
		return Customer{}, &ValidationError{Messages: []string{
			"El campo estado debe ser uno de: activo, inactivo, eliminado",
		}}
	}
	updated, err := s.repo.ChangeStatus(ctx, id, estado, identity.UserID)
	if err != nil {
		return Customer{}, err
	}
	s.bump(ctx)
	return updated, nil
}

// SoftDelete marks the customer eliminado; the row and its history remain.
func (s *Service) SoftDelete(ctx context.Context, id int64, identity shared.Identity) (Customer, error) {
	return s.ChangeStatus(ctx, id, EstadoEliminado, identity)
}

// Restore brings a soft-deleted customer back as activo.
func (s *Service) Restore(ctx context.Context, id int64, identity shared.Identity) (Customer, error) {
	return s.ChangeStatus(ctx, id, EstadoActivo, identity)
}

func (s *Service) QuickSearch(ctx context.Context, term string) ([]CustomerSummary, error) {
	return s.repo.QuickSearch(ctx, foldSearchTerm(term))
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("no se pudo invalidar la caché del dashboard", "error", err)
	}
}
