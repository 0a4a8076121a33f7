package workflow

import (
	"strings"
	"sync"
	"time"

	"messapp/internal/domain/cart"
	"messapp/internal/domain/catalog"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"
)

// Session is the state owned by one signed-in student: form fields, cart,
// the last fetched menu and subscription, and the clock used to classify orders.
type Session struct {
	mu sync.Mutex

	studentName  string
	cart         *cart.Cart
	catalog      catalog.Catalog
	subscription *subscription.Record
	now          func() time.Time
}

// NewSession starts with an empty cart and an empty catalog. now defaults to time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{cart: cart.New(), now: now}
}

func (s *Session) SetStudentName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studentName = strings.TrimSpace(name)
}

func (s *Session) StudentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentName
}

func (s *Session) Catalog() catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

func (s *Session) setCatalog(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
}

// Subscription returns a copy; nil means none on record.
func (s *Session) Subscription() *subscription.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscription == nil {
		return nil
	}
	r := *s.subscription
	return &r
}

func (s *Session) setSubscription(r *subscription.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.subscription = nil
		return
	}
	cp := *r
	s.subscription = &cp
}

func (s *Session) CartLines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// CartTotal is recomputed from the current catalog on every call.
func (s *Session) CartTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total(s.catalog)
}

// settle takes submitted lines out of the cart. Caller holds s.mu.
func (s *Session) settle(sent []ordering.Item) {
	for _, it := range sent {
		left := s.cart.Quantity(it.ItemID) - it.Quantity
		if left < 1 {
			s.cart.Remove(it.ItemID)
			continue
		}
		s.cart.SetQuantity(it.ItemID, left)
	}
}
