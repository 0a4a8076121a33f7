package ordering

import (
	"strings"
	"time"

	"messapp/internal/domain/cart"
	"messapp/internal/domain/catalog"
	"messapp/internal/domain/subscription"
)

type PaymentMethod string

const (
	PaymentMessPass     PaymentMethod = "mess_pass"
	PaymentPayAtCounter PaymentMethod = "pay_at_counter"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentMessPass || p == PaymentPayAtCounter
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// immediate orders; terminal on acceptance
	StatusAccepted Status = "ACCEPTED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {},
	StatusRejected: {},
	StatusAccepted: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// InitialStatus is the status an order gets on acceptance.
func InitialStatus(isPreorder bool) Status {
	if isPreorder {
		return StatusPending
	}
	return StatusAccepted
}

type Item struct {
	ItemID   int64
	Name     string
	Quantity int64
}

// Order is the snapshot sent to SubmitOrder and read back from history.
type Order struct {
	ID             int64
	StudentName    string
	Items          []Item
	IsPreorder     bool
	Category       string
	PaymentMethod  PaymentMethod
	MessPassNumber string
	Status         Status
	CreatedAt      time.Time
}

type ValidationKind string

const (
	EmptyCart   ValidationKind = "EmptyCart"
	MissingName ValidationKind = "MissingName"
)

// ValidationError blocks submission locally; it never reaches the network.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyCart:
		return "cart is empty"
	case MissingName:
		return "name is required"
	default:
		return "invalid order"
	}
}

// DerivePayment: mess pass iff the subscription is active with a known pass number.
func DerivePayment(sub *subscription.Record) (PaymentMethod, string) {
	if sub != nil && sub.CanPayWithPass() {
		return PaymentMessPass, strings.TrimSpace(sub.MessPassNumber)
	}
	return PaymentPayAtCounter, ""
}

// BuildOrder turns a cart into a submittable snapshot. sub is nil when the student never subscribed.
func BuildOrder(c *cart.Cart, studentName string, sub *subscription.Record, cat catalog.Catalog, now time.Time) (Order, error) {
	if c == nil || c.IsEmpty() {
		return Order{}, &ValidationError{Kind: EmptyCart}
	}
	name := strings.TrimSpace(studentName)
	if name == "" {
		return Order{}, &ValidationError{Kind: MissingName}
	}

	lines := c.Lines()
	cls := Classify(lines, cat, now)
	method, pass := DerivePayment(sub)

	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{ItemID: l.ItemID, Name: l.Name, Quantity: l.Quantity})
	}

	return Order{
		StudentName:    name,
		Items:          items,
		IsPreorder:     cls.IsPreorder,
		Category:       cls.Category,
		PaymentMethod:  method,
		MessPassNumber: pass,
	}, nil
}
