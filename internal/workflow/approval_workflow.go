package workflow

import (
	"context"
	"time"

	"messapp/internal/domain/ordering"
)

// ApprovalWorkflow is the admin side. Whether a decision is still legal is up to the service.
type ApprovalWorkflow struct {
	gw      Gateway
	timeout time.Duration
}

func NewApprovalWorkflow(gw Gateway) *ApprovalWorkflow {
	return &ApprovalWorkflow{gw: gw, timeout: DefaultTimeout}
}

func (a *ApprovalWorkflow) Pending(ctx context.Context) ([]ordering.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	orders, err := a.gw.FetchPendingPreorders(ctx)
	if err != nil {
		return nil, asGatewayError("fetch pending pre-orders", err)
	}
	return orders, nil
}

// Decide approves or rejects orderID. A second decision on the same order comes back as a RejectedError.
func (a *ApprovalWorkflow) Decide(ctx context.Context, orderID int64, approve bool) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return asGatewayError("decide pre-order", a.gw.DecideApproval(ctx, orderID, approve))
}
