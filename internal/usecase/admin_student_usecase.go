package usecase

import (
	"context"
	"net/http"
	"time"

	"messapp/internal/domain/model"
	repo "messapp/internal/repository"
)

type StudentOutput struct {
	ID           int64              `json:"id"`
	Enrollment   string             `json:"enrollment"`
	Name         string             `json:"name"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	Subscription SubscriptionOutput `json:"subscription"`
}

type AdminStudentUsecase struct {
	users repo.UserRepository
	subs  repo.SubscriptionRepository
}

func NewAdminStudentUsecase(users repo.UserRepository, subs repo.SubscriptionRepository) *AdminStudentUsecase {
	return &AdminStudentUsecase{users: users, subs: subs}
}

// List returns every student with their subscription ("none" when absent).
func (u *AdminStudentUsecase) List(ctx context.Context) ([]StudentOutput, error) {
	users, err := u.users.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return []StudentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]int64, 0, len(users))
	for _, us := range users {
		ids = append(ids, us.ID)
	}
	subs, err := u.subs.ListByUserIDs(ctx, ids)
	if err != nil {
		return []StudentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byUser := make(map[int64]model.Subscription, len(subs))
	for _, s := range subs {
		byUser[s.UserID] = s
	}

	outs := make([]StudentOutput, 0, len(users))
	for _, us := range users {
		sub := SubscriptionOutput{Status: SubscriptionStatusNone}
		if s, ok := byUser[us.ID]; ok {
			sub = toSubscriptionOutput(s)
		}
		outs = append(outs, StudentOutput{
			ID:           us.ID,
			Enrollment:   us.Enrollment,
			Name:         us.Name,
			IsActive:     us.IsActive,
			CreatedAt:    us.CreatedAt,
			Subscription: sub,
		})
	}
	return outs, nil
}
