package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"
	"messapp/internal/usecase"
)

// FetchCatalog: an unreadable menu is an empty menu.
func (c *Client) FetchCatalog(ctx context.Context) (catalog.Catalog, error) {
	var out usecase.CatalogOutput
	if err := c.do(ctx, "fetch catalog", http.MethodGet, "/menu", nil, nil, &out); err != nil {
		if errors.Is(err, errDecode) {
			return catalog.Catalog{}, nil
		}
		return catalog.Catalog{}, err
	}
	cat, err := out.ToCatalog()
	if err != nil {
		return catalog.Catalog{}, nil
	}
	return cat, nil
}

func (c *Client) FetchSubscription(ctx context.Context) (*subscription.Record, error) {
	var out usecase.SubscriptionOutput
	if err := c.do(ctx, "fetch subscription", http.MethodGet, "/subscription", nil, nil, &out); err != nil {
		return nil, err
	}
	_, userID := c.session()
	rec, ok := out.ToRecord(userID)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (c *Client) Subscribe(ctx context.Context, d subscription.Duration) (subscription.Record, error) {
	var out usecase.SubscriptionOutput
	if err := c.do(ctx, "subscribe", http.MethodPost, "/subscription", nil,
		usecase.SubscribeInput{DurationMonths: int(d)}, &out); err != nil {
		return subscription.Record{}, err
	}
	_, userID := c.session()
	rec, _ := out.ToRecord(userID)
	return rec, nil
}

func (c *Client) CancelSubscription(ctx context.Context) error {
	return c.do(ctx, "cancel subscription", http.MethodPost, "/subscription/cancel", nil, nil, nil)
}

// SubmitOrder sends ids and quantities only; the service prices the order.
func (c *Client) SubmitOrder(ctx context.Context, o ordering.Order, idempotencyKey string) (ordering.Order, error) {
	in := usecase.SubmitOrderInput{
		StudentName:    o.StudentName,
		Items:          make([]usecase.OrderLineInput, 0, len(o.Items)),
		IsPreorder:     o.IsPreorder,
		Category:       o.Category,
		PaymentMethod:  string(o.PaymentMethod),
		MessPassNumber: o.MessPassNumber,
	}
	for _, it := range o.Items {
		in.Items = append(in.Items, usecase.OrderLineInput{MenuItemID: it.ItemID, Quantity: it.Quantity})
	}

	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{headerIdempotencyKey: idempotencyKey}
	}

	var out usecase.OrderOutput
	if err := c.do(ctx, "submit order", http.MethodPost, "/orders", headers, in, &out); err != nil {
		return ordering.Order{}, err
	}
	return out.ToOrder(), nil
}

func (c *Client) FetchOrderHistory(ctx context.Context) ([]ordering.Order, error) {
	return c.listOrders(ctx, "fetch order history", "/orders")
}

func (c *Client) FetchPendingPreorders(ctx context.Context) ([]ordering.Order, error) {
	return c.listOrders(ctx, "fetch pending pre-orders", "/admin/preorders")
}

func (c *Client) DecideApproval(ctx context.Context, orderID int64, approve bool) error {
	path := fmt.Sprintf("/admin/preorders/%d/decision", orderID)
	return c.do(ctx, "decide pre-order", http.MethodPost, path, nil, usecase.DecisionInput{Approve: &approve}, nil)
}

func (c *Client) listOrders(ctx context.Context, op, path string) ([]ordering.Order, error) {
	var outs []usecase.OrderOutput
	if err := c.do(ctx, op, http.MethodGet, path, nil, nil, &outs); err != nil {
		return nil, err
	}
	orders := make([]ordering.Order, 0, len(outs))
	for _, o := range outs {
		orders = append(orders, o.ToOrder())
	}
	return orders, nil
}
