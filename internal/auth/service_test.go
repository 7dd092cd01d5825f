package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/shared"
)

type stubUserRepo struct {
	user    *User
	findErr error
	touched []int64
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) TouchLastAccess(ctx context.Context, userID int64) error {
	s.touched = append(s.touched, userID)
	return nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewTokenStore(client, time.Hour))
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := &stubUserRepo{user: &User{
		ID:           3,
		Username:     "supervisor",
		PasswordHash: hashFor(t, "super123"),
		Role:         "  Supervisor ",
		IsActive:     true,
	}}
	service := newTestService(t, repo)
	ctx := context.Background()

	token, identity, err := service.Login(ctx, "supervisor", "super123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.Role != shared.RoleSupervisor {
		t.Fatalf("expected normalized role, got %q", identity.Role)
	}
	if len(repo.touched) != 1 || repo.touched[0] != 3 {
		t.Fatalf("expected last-access stamp for user 3, got %v", repo.touched)
	}

	resolved, err := service.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if resolved != identity {
		t.Fatalf("expected %+v, got %+v", identity, resolved)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: &User{
		ID:           1,
		Username:     "admin",
		PasswordHash: hashFor(t, "admin123"),
		Role:         "admin",
		IsActive:     true,
	}}
	service := newTestService(t, repo)

	_, _, err := service.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(repo.touched) != 0 {
		t.Fatal("failed logins must not stamp last access")
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	service := newTestService(t, &stubUserRepo{findErr: httpx.ErrNotFound})

	_, _, err := service.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := &stubUserRepo{user: &User{
		ID:           4,
		Username:     "vendedor1",
		PasswordHash: hashFor(t, "vende123"),
		Role:         "vendedor",
		IsActive:     false,
	}}
	service := newTestService(t, repo)

	_, _, err := service.Login(context.Background(), "vendedor1", "vende123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := &stubUserRepo{user: &User{
		ID:           1,
		Username:     "admin",
		PasswordHash: hashFor(t, "admin123"),
		Role:         "admin",
		IsActive:     true,
	}}
	service := newTestService(t, repo)
	ctx := context.Background()

	token, _, err := service.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := service.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := service.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to be invalid, got %v", err)
	}
}
