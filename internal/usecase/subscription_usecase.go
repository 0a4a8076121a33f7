package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"messapp/internal/domain/model"
	"messapp/internal/domain/subscription"
	repo "messapp/internal/repository"
)

const SubscriptionStatusNone = "none"

type SubscriptionOutput struct {
	// none / active / cancelled
	Status         string     `json:"status"`
	DurationMonths int        `json:"duration_months,omitempty"`
	Cost           int64      `json:"cost,omitempty"`
	MessPassNumber string     `json:"mess_pass_number,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

type SubscribeInput struct {
	DurationMonths int `json:"duration_months"`
}

type SubscriptionUsecase struct {
	tx    repo.TransactionManager
	subs  repo.SubscriptionRepository
	clock Clock
}

func NewSubscriptionUsecase(tx repo.TransactionManager, subs repo.SubscriptionRepository, clock Clock) *SubscriptionUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SubscriptionUsecase{tx: tx, subs: subs, clock: clock}
}

// Record is nil when the student never subscribed.
func (u *SubscriptionUsecase) Record(ctx context.Context, userID int64) (*subscription.Record, error) {
	s, err := u.subs.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	rec := toRecord(s)
	return &rec, nil
}

func (u *SubscriptionUsecase) Get(ctx context.Context, userID int64) (SubscriptionOutput, error) {
	if userID <= 0 {
		return SubscriptionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	s, err := u.subs.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return SubscriptionOutput{Status: SubscriptionStatusNone}, nil
	}
	if err != nil {
		return SubscriptionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toSubscriptionOutput(s), nil
}

// Subscribe creates or reactivates the student's single subscription.
// The pass number is assigned once and kept across cancel/resubscribe.
func (u *SubscriptionUsecase) Subscribe(ctx context.Context, userID int64, in SubscribeInput) (SubscriptionOutput, error) {
	if userID <= 0 {
		return SubscriptionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	d := subscription.Duration(in.DurationMonths)
	if !d.Valid() {
		return SubscriptionOutput{}, NewHTTPError(http.StatusBadRequest, subscription.ErrInvalidDuration.Error())
	}

	var out SubscriptionOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := u.clock.Now()

		// 初回ならパス番号を採番（以後は変えない）
		s, err := r.Subscriptions().FindByUserID(ctx, userID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			s = model.Subscription{
				UserID:         userID,
				MessPassNumber: subscription.PassNumberFor(userID),
			}
		case err != nil:
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if s.Status != subscription.StatusActive {
			s.StartedAt = now
		}
		s.DurationMonths = int(d)
		s.Status = subscription.StatusActive
		s.CancelledAt = nil

		if err := r.Subscriptions().Save(ctx, &s); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "subscription changed, retry")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toSubscriptionOutput(s)
		return nil
	})
	if err != nil {
		return SubscriptionOutput{}, err
	}
	return out, nil
}

func (u *SubscriptionUsecase) Cancel(ctx context.Context, userID int64) (SubscriptionOutput, error) {
	if userID <= 0 {
		return SubscriptionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out SubscriptionOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Subscriptions().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusConflict, "no active subscription")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if s.Status != subscription.StatusActive {
			return NewHTTPError(http.StatusConflict, "no active subscription")
		}

		// 解約しても期間とパス番号は残す
		now := u.clock.Now()
		s.Status = subscription.StatusCancelled
		s.CancelledAt = &now
		if err := r.Subscriptions().Save(ctx, &s); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toSubscriptionOutput(s)
		return nil
	})
	if err != nil {
		return SubscriptionOutput{}, err
	}
	return out, nil
}

func toRecord(s model.Subscription) subscription.Record {
	return subscription.Record{
		StudentID:      s.UserID,
		Duration:       subscription.Duration(s.DurationMonths),
		Status:         s.Status,
		MessPassNumber: s.MessPassNumber,
	}
}

func toSubscriptionOutput(s model.Subscription) SubscriptionOutput {
	out := SubscriptionOutput{
		Status:         string(s.Status),
		DurationMonths: s.DurationMonths,
		MessPassNumber: s.MessPassNumber,
		CancelledAt:    s.CancelledAt,
	}
	if cost, err := subscription.Cost(subscription.Duration(s.DurationMonths)); err == nil {
		out.Cost = cost
	}
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		out.StartedAt = &started
	}
	return out
}

// ToRecord is the domain view of a fetched subscription; ok is false for "none".
func (o SubscriptionOutput) ToRecord(studentID int64) (subscription.Record, bool) {
	if o.Status == "" || o.Status == SubscriptionStatusNone {
		return subscription.Record{}, false
	}
	return subscription.Record{
		StudentID:      studentID,
		Duration:       subscription.Duration(o.DurationMonths),
		Status:         subscription.Status(o.Status),
		MessPassNumber: o.MessPassNumber,
	}, true
}
