package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messapp/internal/domain/model"
	"messapp/internal/repository"
)

// EnsureAdminUsecase creates the configured admin account on startup.
type EnsureAdminUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

func NewEnsureAdminUsecase(userRepo repository.UserRepository, hasher PasswordHasher, clock Clock) *EnsureAdminUsecase {
	return &EnsureAdminUsecase{userRepo: userRepo, hasher: hasher, clock: clock}
}

// Execute reports whether an account was created. An existing admin is left alone;
// an existing student with the same enrollment is an error.
func (u *EnsureAdminUsecase) Execute(ctx context.Context, enrollment, password string) (bool, error) {
	enrollment = strings.TrimSpace(enrollment)
	if enrollment == "" || password == "" {
		return false, nil
	}

	existing, err := u.userRepo.FindByEnrollment(ctx, enrollment)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.Role != model.RoleAdmin {
			return false, fmt.Errorf("admin enrollment %q belongs to a student", enrollment)
		}
		return false, nil
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := u.clock.Now()
	err = u.userRepo.Create(ctx, &model.User{
		Enrollment:   enrollment,
		Name:         "Mess Admin",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, repository.ErrConflict) {
		// another instance created it first
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
