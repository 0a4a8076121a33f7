package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	repo "messapp/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, clock Clock) *AdminOrderUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo, clock: clock}
}

type DecisionInput struct {
	Approve *bool `json:"approve"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	switch ordering.Status(f.Status) {
	case "", ordering.StatusPending, ordering.StatusApproved, ordering.StatusRejected, ordering.StatusAccepted:
	default:
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// PendingPreorders lists pre-orders waiting for a decision.
func (u *AdminOrderUsecase) PendingPreorders(ctx context.Context) ([]OrderOutput, error) {
	preorder := true
	return u.List(ctx, repo.AdminOrderListFilter{
		Page:       1,
		Limit:      100,
		Status:     string(ordering.StatusPending),
		IsPreorder: &preorder,
	})
}

// Decide approves or rejects a pending pre-order. A decided order is a 409.
func (u *AdminOrderUsecase) Decide(ctx context.Context, actorAdminUserID int64, orderID int64, approve bool) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	target := ordering.StatusRejected
	if approve {
		target = ordering.StatusApproved
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !o.IsPreorder {
			return NewHTTPError(http.StatusConflict, "not a pre-order")
		}
		// 終端ガード（決定済みは409）
		if !ordering.CanTransition(o.Status, target) {
			return NewHTTPError(http.StatusConflict, "order already decided")
		}

		// ステータス更新（前の状態が変わっていたら競合）
		before := o.Status
		if err := r.Orders().UpdateStatusFrom(ctx, orderID, before, target); err != nil {
			switch {
			case errors.Is(err, repo.ErrConflict):
				return NewHTTPError(http.StatusConflict, "order already decided")
			case errors.Is(err, repo.ErrNotFound):
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.Status = target

		// ★監査ログ（DECIDE_PREORDER）
		beforeJSON, _ := json.Marshal(map[string]string{"status": string(before)})
		afterJSON, _ := json.Marshal(map[string]string{"status": string(target)})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDecidePreorder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) AuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Limit > 200 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// ParseDateTimeRFC3339 reads an optional from/to query value; ok is false when malformed.
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
