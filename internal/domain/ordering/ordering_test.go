package ordering_test

import (
	"errors"
	"testing"
	"time"

	"messapp/internal/domain/cart"
	"messapp/internal/domain/catalog"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	idli    = catalog.Item{ID: 1, Name: "Idli", Price: catalog.PriceOf(30)}
	biryani = catalog.Item{ID: 3, Name: "Biryani", Price: catalog.PriceOf(120)}
	samosa  = catalog.Item{ID: 5, Name: "Samosa", Price: catalog.PriceOf(15)}
)

func menu() catalog.Catalog {
	w := catalog.DefaultWindows()
	w[0].Items = []catalog.Item{idli}
	w[1].Items = []catalog.Item{biryani}
	w[2].Items = []catalog.Item{samosa}
	return catalog.New(time.UTC, w...)
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func cartOf(items ...catalog.Item) *cart.Cart {
	c := cart.New()
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Scenario A
func TestClassify_BreakfastOpen_IsImmediate(t *testing.T) {
	c := cartOf(idli, idli)

	got := ordering.Classify(c.Lines(), menu(), at(8, 0))
	assert.False(t, got.IsPreorder)
	assert.Empty(t, got.Category)
}

// Scenario B
func TestClassify_LunchNotStarted_IsPreorder(t *testing.T) {
	c := cartOf(biryani)

	got := ordering.Classify(c.Lines(), menu(), at(9, 0))
	assert.True(t, got.IsPreorder)
	assert.Equal(t, "Lunch", got.Category)
}

// mixed cart: any unopened window makes a pre-order, filed under the first line
func TestClassify_MixedCart_FirstLineCategory(t *testing.T) {
	c := cartOf(idli, samosa)

	got := ordering.Classify(c.Lines(), menu(), at(9, 0))
	assert.True(t, got.IsPreorder)
	assert.Equal(t, "Breakfast", got.Category)
}

func TestClassify_UnknownItemFailsOpen(t *testing.T) {
	c := cartOf(catalog.Item{ID: 404, Name: "Gone"})

	got := ordering.Classify(c.Lines(), menu(), at(6, 0))
	assert.False(t, got.IsPreorder)
}

func TestClassify_UsesCatalogLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	w := catalog.DefaultWindows()
	w[1].Items = []catalog.Item{biryani}
	cat := catalog.New(ist, w...)

	// 06:00 UTC is 11:30 IST: lunch not started yet
	got := ordering.Classify(cartOf(biryani).Lines(), cat, at(6, 0))
	assert.True(t, got.IsPreorder)

	// 07:00 UTC is 12:30 IST
	got = ordering.Classify(cartOf(biryani).Lines(), cat, at(7, 0))
	assert.False(t, got.IsPreorder)
}

// once past window start, the same day never flips back to pre-order
func TestClassify_MonotonicInNow(t *testing.T) {
	lines := cartOf(biryani).Lines()
	seenImmediate := false
	for m := 0; m < 24*60; m += 5 {
		now := at(0, 0).Add(time.Duration(m) * time.Minute)
		first := ordering.Classify(lines, menu(), now)
		second := ordering.Classify(lines, menu(), now)
		assert.Equal(t, first, second)

		if !first.IsPreorder {
			seenImmediate = true
		}
		if seenImmediate {
			assert.False(t, first.IsPreorder, "flipped back at %s", now.Format("15:04"))
		}
	}
	assert.True(t, seenImmediate)
}

func TestDerivePayment(t *testing.T) {
	tests := []struct {
		name       string
		sub        *subscription.Record
		wantMethod ordering.PaymentMethod
		wantPass   string
	}{
		{"never subscribed", nil, ordering.PaymentPayAtCounter, ""},
		{"active with pass", &subscription.Record{Status: subscription.StatusActive, MessPassNumber: "MP-102"}, ordering.PaymentMessPass, "MP-102"},
		{"active without pass", &subscription.Record{Status: subscription.StatusActive}, ordering.PaymentPayAtCounter, ""},
		{"cancelled", &subscription.Record{Status: subscription.StatusCancelled, MessPassNumber: "MP-102"}, ordering.PaymentPayAtCounter, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, pass := ordering.DerivePayment(tt.sub)
			assert.Equal(t, tt.wantMethod, m)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}

// Scenario A: no subscription => pay at counter
func TestBuildOrder_ImmediatePayAtCounter(t *testing.T) {
	o, err := ordering.BuildOrder(cartOf(idli, idli), "Asha", nil, menu(), at(8, 0))
	require.NoError(t, err)

	assert.Equal(t, "Asha", o.StudentName)
	assert.False(t, o.IsPreorder)
	assert.Equal(t, ordering.PaymentPayAtCounter, o.PaymentMethod)
	assert.Empty(t, o.MessPassNumber)
	assert.Equal(t, []ordering.Item{{ItemID: 1, Name: "Idli", Quantity: 2}}, o.Items)
}

// Scenario C
func TestBuildOrder_ActiveSubscriptionUsesPass(t *testing.T) {
	sub := &subscription.Record{StudentID: 7, Duration: subscription.SixMonths, Status: subscription.StatusActive, MessPassNumber: "MP-102"}

	o, err := ordering.BuildOrder(cartOf(biryani), "Ravi", sub, menu(), at(9, 0))
	require.NoError(t, err)

	assert.True(t, o.IsPreorder)
	assert.Equal(t, "Lunch", o.Category)
	assert.Equal(t, ordering.PaymentMessPass, o.PaymentMethod)
	assert.Equal(t, "MP-102", o.MessPassNumber)
}

// Scenario E
func TestBuildOrder_EmptyCart(t *testing.T) {
	_, err := ordering.BuildOrder(cart.New(), "Asha", nil, menu(), at(8, 0))

	var ve *ordering.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ordering.EmptyCart, ve.Kind)
}

func TestBuildOrder_MissingName(t *testing.T) {
	_, err := ordering.BuildOrder(cartOf(idli), "   ", nil, menu(), at(8, 0))

	var ve *ordering.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ordering.MissingName, ve.Kind)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, ordering.CanTransition(ordering.StatusPending, ordering.StatusApproved))
	assert.True(t, ordering.CanTransition(ordering.StatusPending, ordering.StatusRejected))
	assert.False(t, ordering.CanTransition(ordering.StatusApproved, ordering.StatusRejected))
	assert.False(t, ordering.CanTransition(ordering.StatusAccepted, ordering.StatusApproved))

	assert.Equal(t, ordering.StatusPending, ordering.InitialStatus(true))
	assert.Equal(t, ordering.StatusAccepted, ordering.InitialStatus(false))
}
