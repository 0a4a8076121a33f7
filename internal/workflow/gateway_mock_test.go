package workflow_test

import (
	"context"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"

	"github.com/stretchr/testify/mock"
)

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) FetchCatalog(ctx context.Context) (catalog.Catalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.Catalog), args.Error(1)
}

func (m *GatewayMock) FetchSubscription(ctx context.Context) (*subscription.Record, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*subscription.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GatewayMock) Subscribe(ctx context.Context, d subscription.Duration) (subscription.Record, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(subscription.Record), args.Error(1)
}

func (m *GatewayMock) CancelSubscription(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *GatewayMock) SubmitOrder(ctx context.Context, o ordering.Order, key string) (ordering.Order, error) {
	args := m.Called(ctx, o, key)
	return args.Get(0).(ordering.Order), args.Error(1)
}

func (m *GatewayMock) FetchOrderHistory(ctx context.Context) ([]ordering.Order, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]ordering.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GatewayMock) FetchPendingPreorders(ctx context.Context) ([]ordering.Order, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]ordering.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GatewayMock) DecideApproval(ctx context.Context, orderID int64, approve bool) error {
	return m.Called(ctx, orderID, approve).Error(0)
}
