package workflow

import (
	"context"
	"time"

	"messapp/internal/domain/subscription"
)

// SubscriptionState keeps the session's view of the mess pass in step with the service.
type SubscriptionState struct {
	gw      Gateway
	s       *Session
	timeout time.Duration
}

func NewSubscriptionState(gw Gateway, s *Session) *SubscriptionState {
	return &SubscriptionState{gw: gw, s: s, timeout: DefaultTimeout}
}

// Current fetches the record; nil means the student never subscribed.
func (st *SubscriptionState) Current(ctx context.Context) (*subscription.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, st.timeout)
	defer cancel()

	r, err := st.gw.FetchSubscription(ctx)
	if err != nil {
		return nil, asGatewayError("fetch subscription", err)
	}
	st.s.setSubscription(r)
	return st.s.Subscription(), nil
}

// Subscribe checks the plan locally before calling the service.
func (st *SubscriptionState) Subscribe(ctx context.Context, months int) (subscription.Record, error) {
	d := subscription.Duration(months)
	if !d.Valid() {
		return subscription.Record{}, subscription.ErrInvalidDuration
	}

	ctx, cancel := context.WithTimeout(ctx, st.timeout)
	defer cancel()

	r, err := st.gw.Subscribe(ctx, d)
	if err != nil {
		return subscription.Record{}, asGatewayError("subscribe", err)
	}
	st.s.setSubscription(&r)
	return r, nil
}

// Cancel keeps duration and pass number on the cached record.
func (st *SubscriptionState) Cancel(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, st.timeout)
	defer cancel()

	if err := st.gw.CancelSubscription(ctx); err != nil {
		return asGatewayError("cancel subscription", err)
	}
	if r := st.s.Subscription(); r != nil {
		r.Status = subscription.StatusCancelled
		st.s.setSubscription(r)
	}
	return nil
}
