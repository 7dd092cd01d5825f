package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	_ "github.com/avecor-crm/avecor-crm/testing"
)

type stubAccountRepo struct {
	created struct {
		username, passwordHash, role, fullName string
	}
	updatedHash *string
}

func (s *stubAccountRepo) List(ctx context.Context) ([]Account, error) {
	return []Account{}, nil
}

func (s *stubAccountRepo) Create(ctx context.Context, username, passwordHash, role, fullName string) (Account, error) {
	s.created.username = username
	s.created.passwordHash = passwordHash
	s.created.role = role
	s.created.fullName = fullName
	return Account{ID: 1, Username: username, Role: role, FullName: fullName, IsActive: true}, nil
}

func (s *stubAccountRepo) Update(ctx context.Context, id int64, passwordHash, role, fullName *string) (Account, error) {
	s.updatedHash = passwordHash
	return Account{ID: id}, nil
}

func (s *stubAccountRepo) SetActive(ctx context.Context, id int64, active bool) (Account, error) {
	return Account{ID: id, IsActive: active}, nil
}

func TestCreateNormalizesAndHashes(t *testing.T) {
	repo := &stubAccountRepo{}
	service := NewService(repo)

	account, err := service.Create(context.Background(), CreateInput{
		Username: "  Vendedor2 ",
		Password: "vende456",
		Role:     "Vendedor",
		FullName: "  Vendedor Zona Norte ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.Username != "vendedor2" || repo.created.role != "vendedor" {
		t.Fatalf("expected lowercase username and role, got %+v", repo.created)
	}
	if repo.created.fullName != "Vendedor Zona Norte" {
		t.Fatalf("expected trimmed full name, got %q", repo.created.fullName)
	}
	if repo.created.passwordHash == "vende456" {
		t.Fatal("password must never reach the repository in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.created.passwordHash), []byte("vende456")); err != nil {
		t.Fatalf("stored hash does not match the password: %v", err)
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	service := NewService(&stubAccountRepo{})

	_, err := service.Create(context.Background(), CreateInput{
		Username: "vendedor2",
		Password: "123",
		Role:     "vendedor",
	})
	var verr *ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(verr.Message, "contraseña") {
		t.Fatalf("expected a password message, got %q", verr.Message)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	service := NewService(&stubAccountRepo{})

	_, err := service.Create(context.Background(), CreateInput{
		Username: "gerente1",
		Password: "secreto1",
		Role:     "gerente",
	})
	var verr *ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(verr.Message, "rol") {
		t.Fatalf("expected a role message, got %q", verr.Message)
	}
}

func TestUpdateWithoutPasswordKeepsHashUntouched(t *testing.T) {
	repo := &stubAccountRepo{}
	service := NewService(repo)

	role := "supervisor"
	if _, err := service.Update(context.Background(), 3, UpdateInput{Role: &role}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updatedHash != nil {
		t.Fatal("expected no password hash when password is absent")
	}
}

func TestUpdateRehashesNewPassword(t *testing.T) {
	repo := &stubAccountRepo{}
	service := NewService(repo)

	password := "nuevo123"
	if _, err := service.Update(context.Background(), 3, UpdateInput{Password: &password}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updatedHash == nil {
		t.Fatal("expected a password hash to be forwarded")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*repo.updatedHash), []byte(password)); err != nil {
		t.Fatalf("forwarded hash does not match: %v", err)
	}
}
