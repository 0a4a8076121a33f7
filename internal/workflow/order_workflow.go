package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"messapp/internal/domain/ordering"

	"github.com/google/uuid"
)

const (
	DefaultTimeout = 7 * time.Second

	PendingApprovalNotice = "Pre-order placed. It will be confirmed once the mess admin approves it."
)

// SubmitState is what the student sees after the last submission.
type SubmitState struct {
	Submitted bool
	// set for accepted pre-orders
	Notice string
	Last   *ordering.Order
}

// OrderWorkflow drives Draft -> Submitted for one session.
type OrderWorkflow struct {
	gw      Gateway
	s       *Session
	timeout time.Duration
	newKey  func() string

	inFlight atomic.Bool

	mu    sync.Mutex
	key   string
	state SubmitState
}

type Option func(*OrderWorkflow)

func WithTimeout(d time.Duration) Option {
	return func(w *OrderWorkflow) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithKeyGenerator replaces uuid.NewString for idempotency keys.
func WithKeyGenerator(f func() string) Option {
	return func(w *OrderWorkflow) {
		if f != nil {
			w.newKey = f
		}
	}
}

func NewOrderWorkflow(gw Gateway, s *Session, opts ...Option) *OrderWorkflow {
	w := &OrderWorkflow{gw: gw, s: s, timeout: DefaultTimeout, newKey: uuid.NewString}
	for _, o := range opts {
		o(w)
	}
	return w
}

// RefreshCatalog re-fetches the menu. On failure the previous menu stays in place.
func (w *OrderWorkflow) RefreshCatalog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	c, err := w.gw.FetchCatalog(ctx)
	if err != nil {
		return asGatewayError("fetch catalog", err)
	}
	w.s.setCatalog(c)
	return nil
}

// Add puts one more unit of itemID in the cart. False when the item is not on the current menu.
func (w *OrderWorkflow) Add(itemID int64) bool {
	w.s.mu.Lock()
	it, ok := w.s.catalog.FindItem(itemID)
	if ok {
		w.s.cart.Add(it)
	}
	w.s.mu.Unlock()

	if ok {
		w.newDraft()
	}
	return ok
}

func (w *OrderWorkflow) Remove(itemID int64) bool {
	w.s.mu.Lock()
	ok := w.s.cart.Remove(itemID)
	w.s.mu.Unlock()

	if ok {
		w.newDraft()
	}
	return ok
}

// SetQuantity ignores qty < 1; removal goes through Remove.
func (w *OrderWorkflow) SetQuantity(itemID int64, qty int64) bool {
	w.s.mu.Lock()
	ok := w.s.cart.SetQuantity(itemID, qty)
	w.s.mu.Unlock()

	if ok {
		w.newDraft()
	}
	return ok
}

// any cart change is a different order: drop the old key and the previous outcome
func (w *OrderWorkflow) newDraft() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = ""
	w.state = SubmitState{}
}

// Preview builds the order that Submit would send right now, without sending it.
func (w *OrderWorkflow) Preview() (ordering.Order, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return ordering.BuildOrder(w.s.cart, w.s.studentName, w.s.subscription, w.s.catalog, w.s.now())
}

// Submit classifies and sends the cart. Only one submission runs at a time.
// On acceptance the sent quantities leave the cart; edits made while the
// request was in flight stay. On any error the cart, name and previous
// state are left untouched.
func (w *OrderWorkflow) Submit(ctx context.Context) (ordering.Order, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return ordering.Order{}, ErrSubmissionInFlight
	}
	defer w.inFlight.Store(false)

	o, err := w.Preview()
	if err != nil {
		return ordering.Order{}, err
	}

	w.mu.Lock()
	if w.key == "" {
		w.key = w.newKey()
	}
	key := w.key
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	accepted, err := w.gw.SubmitOrder(ctx, o, key)
	if err != nil {
		return ordering.Order{}, asGatewayError("submit order", err)
	}

	w.s.mu.Lock()
	w.s.settle(o.Items)
	w.s.mu.Unlock()

	w.mu.Lock()
	w.key = ""
	w.state = SubmitState{Submitted: true, Last: &accepted}
	if accepted.IsPreorder {
		w.state.Notice = PendingApprovalNotice
	}
	w.mu.Unlock()

	return accepted, nil
}

func (w *OrderWorkflow) Submitting() bool {
	return w.inFlight.Load()
}

func (w *OrderWorkflow) State() SubmitState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// History is the student's orders, most recent first. Statuses change only on re-fetch.
func (w *OrderWorkflow) History(ctx context.Context) ([]ordering.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	orders, err := w.gw.FetchOrderHistory(ctx)
	if err != nil {
		return nil, asGatewayError("fetch order history", err)
	}
	return orders, nil
}
