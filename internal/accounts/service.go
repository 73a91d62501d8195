// Package accounts implements the account store: registration, credential
// lookup and the admin-side user management operations.
package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gastos/internal/core"
	"gastos/internal/storage"
)

type Service struct {
	repo *storage.Repository
}

func NewService(repo *storage.Repository) *Service {
	return &Service{repo: repo}
}

// Register validates the form fields and persists the new user, returning
// its id. Username collisions are pre-checked; email uniqueness is enforced
// by the store and surfaces as the same ConflictError kind on insert.
func (s *Service) Register(ctx context.Context, reg core.Registration) (int64, error) {
	if err := reg.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.repo.GetUserByUsername(ctx, reg.Username); err == nil {
		return 0, &core.ConflictError{Field: "username", Value: reg.Username}
	}

	id, err := s.repo.CreateUser(ctx, core.User{
		FirstName:     strings.TrimSpace(reg.FirstName),
		LastName:      strings.TrimSpace(reg.LastName),
		Email:         strings.TrimSpace(reg.Email),
		Age:           reg.Age,
		Sex:           reg.Sex,
		ContactNumber: reg.ContactNumber,
		Username:      reg.Username,
		Password:      reg.Password,
	})
	if err != nil {
		return 0, fmt.Errorf("register %q: %w", reg.Username, err)
	}
	return id, nil
}

// Authenticate performs the exact-match credential lookup. The caller tells
// the privileged session apart purely by the returned username.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*core.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &core.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return nil, &core.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	u, err := s.repo.GetUserByCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "User authenticated", "id", u.ID, "username", u.Username, "admin", u.IsAdmin())
	return u, nil
}

// ListUsers returns every account in insertion order, for the admin
// dashboard.
func (s *Service) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.repo.ListUsers(ctx)
}

// DeleteUser removes an account. Absent ids are a no-op; the user's
// expenses are left untouched.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}
