package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/avecor-crm/avecor-crm/internal/shared"
)

// ErrInvalidCredentials is returned for any login failure. The reason is never
// disclosed to the caller.
var ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates credentials and issues a bearer token for the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, shared.Identity, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", shared.Identity{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", shared.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.Identity{}, ErrInvalidCredentials
	}

	identity := shared.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     strings.ToLower(strings.TrimSpace(user.Role)),
	}
	token, err := s.tokens.Issue(ctx, identity)
	if err != nil {
		return "", shared.Identity{}, err
	}
	// Best effort; a failed stamp must not block the login.
	_ = s.repo.TouchLastAccess(ctx, user.ID)
	return token, identity, nil
}

// Logout revokes the caller's token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Verify resolves a bearer token into the caller identity.
func (s *Service) Verify(ctx context.Context, token string) (shared.Identity, error) {
	return s.tokens.Verify(ctx, token)
}
