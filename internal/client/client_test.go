package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"messapp/internal/client"
	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	"messapp/internal/domain/subscription"
	"messapp/internal/usecase"
	auth "messapp/internal/usecase/auth_usecase"
	"messapp/internal/workflow"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, register func(e *echo.Echo)) *httptest.Server {
	t.Helper()
	e := echo.New()
	register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func priced(v int64) *int64 { return &v }

func TestClient_LoginStoresToken(t *testing.T) {
	var gotAuth string
	srv := newServer(t, func(e *echo.Echo) {
		e.POST("/auth/login", func(c echo.Context) error {
			return c.JSON(http.StatusOK, auth.LoginOutput{
				User:  model.User{ID: 102, Enrollment: "21BCS102", Role: model.RoleStudent},
				Token: auth.JwtAccessToken{AccessToken: "tok-1", ExpiresIn: 3600},
			})
		})
		e.GET("/subscription", func(c echo.Context) error {
			gotAuth = c.Request().Header.Get("Authorization")
			return c.JSON(http.StatusOK, usecase.SubscriptionOutput{
				Status: "active", DurationMonths: 6, MessPassNumber: "MP-102",
			})
		})
	})

	c := client.New(srv.URL)
	out, err := c.Login(context.Background(), "21BCS102", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(102), out.User.ID)

	rec, err := c.FetchSubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	require.NotNil(t, rec)
	assert.Equal(t, subscription.Record{
		StudentID: 102, Duration: subscription.SixMonths, Status: subscription.StatusActive, MessPassNumber: "MP-102",
	}, *rec)
}

func TestClient_FetchSubscription_None(t *testing.T) {
	srv := newServer(t, func(e *echo.Echo) {
		e.GET("/subscription", func(c echo.Context) error {
			return c.JSON(http.StatusOK, usecase.SubscriptionOutput{Status: usecase.SubscriptionStatusNone})
		})
	})

	rec, err := client.New(srv.URL).FetchSubscription(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestClient_FetchCatalog(t *testing.T) {
	srv := newServer(t, func(e *echo.Echo) {
		e.GET("/menu", func(c echo.Context) error {
			return c.JSON(http.StatusOK, usecase.CatalogOutput{
				Timezone: "UTC",
				Categories: []usecase.MenuCategoryOutput{{
					Name: "Breakfast", WindowStart: "07:00", WindowEnd: "11:00",
					Items: []usecase.MenuItemOutput{{ID: 1, Name: "Idli", Price: priced(30)}, {ID: 2, Name: "Chai"}},
				}},
			})
		})
	})

	cat, err := client.New(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)

	it, ok := cat.FindItem(1)
	require.True(t, ok)
	assert.Equal(t, "Breakfast", it.Category)
	assert.Equal(t, int64(30), it.Price.Amount)

	chai, ok := cat.FindItem(2)
	require.True(t, ok)
	assert.False(t, chai.Price.Valid)
}

func TestClient_FetchCatalog_MalformedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "bad window", body: `{"timezone":"UTC","categories":[{"name":"Lunch","window_start":"15:00","window_end":"12:00","items":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(e *echo.Echo) {
				e.GET("/menu", func(c echo.Context) error {
					return c.String(http.StatusOK, tt.body)
				})
			})

			cat, err := client.New(srv.URL).FetchCatalog(context.Background())
			require.NoError(t, err)
			assert.True(t, cat.IsEmpty())
		})
	}
}

func TestClient_SubmitOrder(t *testing.T) {
	var (
		gotKey  string
		gotBody usecase.SubmitOrderInput
	)
	srv := newServer(t, func(e *echo.Echo) {
		e.POST("/orders", func(c echo.Context) error {
			gotKey = c.Request().Header.Get("X-Idempotency-Key")
			if err := c.Bind(&gotBody); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, usecase.OrderOutput{
				ID: 55, StudentName: gotBody.StudentName, IsPreorder: true, Category: "Lunch",
				PaymentMethod: gotBody.PaymentMethod, Status: "PENDING",
				Items: []usecase.OrderItemOutput{{MenuItemID: 3, Name: "Biryani", UnitPrice: priced(120), Quantity: 1}},
			})
		})
	})

	got, err := client.New(srv.URL).SubmitOrder(context.Background(), ordering.Order{
		StudentName:   "Ravi",
		Items:         []ordering.Item{{ItemID: 3, Name: "Biryani", Quantity: 1}},
		IsPreorder:    true,
		Category:      "Lunch",
		PaymentMethod: ordering.PaymentPayAtCounter,
	}, "key-1")
	require.NoError(t, err)

	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, []usecase.OrderLineInput{{MenuItemID: 3, Quantity: 1}}, gotBody.Items)
	assert.Equal(t, "pay_at_counter", gotBody.PaymentMethod)
	assert.Equal(t, int64(55), got.ID)
	assert.Equal(t, ordering.StatusPending, got.Status)
}

func TestClient_RejectionDetailIsVerbatim(t *testing.T) {
	srv := newServer(t, func(e *echo.Echo) {
		e.POST("/orders", func(c echo.Context) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Invalid Mess Pass"})
		})
		e.POST("/admin/preorders/:id/decision", func(c echo.Context) error {
			return c.NoContent(http.StatusConflict)
		})
	})
	c := client.New(srv.URL)

	_, err := c.SubmitOrder(context.Background(), ordering.Order{StudentName: "A"}, "")
	var rej *workflow.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusForbidden, rej.Status)
	assert.Equal(t, "Invalid Mess Pass", rej.Error())

	err = c.DecideApproval(context.Background(), 77, false)
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusConflict, rej.Status)
	assert.Empty(t, rej.Detail)
}

func TestClient_DecideApproval(t *testing.T) {
	var (
		gotID string
		gotIn usecase.DecisionInput
	)
	srv := newServer(t, func(e *echo.Echo) {
		e.POST("/admin/preorders/:id/decision", func(c echo.Context) error {
			gotID = c.Param("id")
			if err := c.Bind(&gotIn); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, usecase.OrderOutput{ID: 77, Status: "APPROVED"})
		})
	})

	require.NoError(t, client.New(srv.URL).DecideApproval(context.Background(), 77, true))
	assert.Equal(t, "77", gotID)
	require.NotNil(t, gotIn.Approve)
	assert.True(t, *gotIn.Approve)
}

func TestClient_Timeout_IsNetworkError(t *testing.T) {
	srv := newServer(t, func(e *echo.Echo) {
		e.GET("/orders", func(c echo.Context) error {
			select {
			case <-c.Request().Context().Done():
			case <-time.After(time.Second):
			}
			return c.JSON(http.StatusOK, []usecase.OrderOutput{})
		})
	})

	c := client.New(srv.URL, client.WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := c.FetchOrderHistory(context.Background())

	var ne *workflow.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "fetch order history", ne.Op)
}

func TestClient_Unreachable_IsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.New(url).FetchPendingPreorders(context.Background())
	var ne *workflow.NetworkError
	require.ErrorAs(t, err, &ne)
}
