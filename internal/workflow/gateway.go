package workflow

import (
	"context"
	"errors"
	"fmt"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"
)

// Gateway is the order-acceptance service as seen from a student or admin session.
type Gateway interface {
	// malformed menu data comes back as an empty catalog, not an error
	FetchCatalog(ctx context.Context) (catalog.Catalog, error)
	// nil when the student never subscribed
	FetchSubscription(ctx context.Context) (*subscription.Record, error)
	Subscribe(ctx context.Context, d subscription.Duration) (subscription.Record, error)
	CancelSubscription(ctx context.Context) error

	// key is resent unchanged on retry; the service answers a replay with the original order
	SubmitOrder(ctx context.Context, o ordering.Order, idempotencyKey string) (ordering.Order, error)
	// most recent first
	FetchOrderHistory(ctx context.Context) ([]ordering.Order, error)

	FetchPendingPreorders(ctx context.Context) ([]ordering.Order, error)
	DecideApproval(ctx context.Context, orderID int64, approve bool) error
}

var ErrSubmissionInFlight = errors.New("an order submission is already in flight")

const genericRejection = "request was rejected, please try again"

// NetworkError covers timeouts and connectivity failures. Local state is kept; retry is safe.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError is a refusal by the service. Detail is shown to the student verbatim.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return genericRejection
	}
	return e.Detail
}

// Message is the text to show for err.
func Message(err error) string {
	var rej *RejectedError
	var ne *NetworkError
	var ve *ordering.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &rej):
		return rej.Error()
	case errors.As(err, &ne):
		return "could not reach the mess service, please retry"
	case errors.Is(err, ErrSubmissionInFlight):
		return "your order is being submitted"
	}
	return err.Error()
}

// asGatewayError keeps the taxonomy closed: anything that is not a rejection is a network failure.
func asGatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	var rej *RejectedError
	var ne *NetworkError
	if errors.As(err, &rej) || errors.As(err, &ne) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}
