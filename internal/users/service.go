package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrValidation wraps the first human-readable message for a rejected payload.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string { return e.Message }

// Service handles account administration: hashing happens here, never in the
// repository or the handler.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	in.Username = strings.TrimSpace(strings.ToLower(in.Username))
	in.Role = strings.TrimSpace(strings.ToLower(in.Role))
	if err := s.validate.Struct(in); err != nil {
		return Account{}, &ErrValidation{Message: validationMessage(err)}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("generar hash de contraseña: %w", err)
	}
	return s.repo.Create(ctx, in.Username, string(hash), in.Role, strings.TrimSpace(in.FullName))
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Account, error) {
	if err := s.validate.Struct(in); err != nil {
		return Account{}, &ErrValidation{Message: validationMessage(err)}
	}
	var passwordHash *string
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return Account{}, fmt.Errorf("generar hash de contraseña: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}
	return s.repo.Update(ctx, id, passwordHash, in.Role, in.FullName)
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) (Account, error) {
	return s.repo.SetActive(ctx, id, active)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Datos inválidos"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Username":
		return "El username debe tener entre 3 y 50 caracteres alfanuméricos"
	case "Password":
		return "La contraseña debe tener entre 6 y 72 caracteres"
	case "Role":
		return "El rol debe ser uno de: admin, supervisor, vendedor"
	case "FullName":
		return "El nombre completo supera el largo máximo de 150"
	default:
		return "Datos inválidos"
	}
}
