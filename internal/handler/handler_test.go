package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/cart"
	"rnimart-be/internal/catalog"
	"rnimart-be/internal/insight"
	"rnimart-be/internal/kvstore"
	"rnimart-be/internal/metrics"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/notification"
	"rnimart-be/internal/order"
	"rnimart-be/internal/session"
	"rnimart-be/internal/store"
	"rnimart-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, msg notification.Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
	return true
}

func (d *recordingDispatcher) Messages() []notification.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Message(nil), d.msgs...)
}

type stubInsights struct{}

func (stubInsights) Latest(ctx context.Context, stats analytics.Stats) insight.Insight {
	if stats.TotalOrders == 0 {
		return insight.Insight{Text: insight.PlaceholderText}
	}
	return insight.Insight{Text: "Perbanyak stok beras."}
}

type testApp struct {
	router     http.Handler
	store      *store.Store
	dispatcher *recordingDispatcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	kv := kvstore.NewMemory()
	st, err := store.Load(ctx, kv)
	require.NoError(t, err)

	m := metrics.New()
	dispatcher := &recordingDispatcher{}
	catalogSvc := catalog.NewService(st)
	orderSvc := order.NewService(st, dispatcher, m, "6285282863008")

	router := NewRouter(Deps{
		Catalog:   catalogSvc,
		Carts:     cart.NewService(cart.NewRegistry(time.Hour), catalogSvc),
		Orders:    orderSvc,
		Users:     user.NewService(st),
		Analytics: analytics.NewService(orderSvc, m),
		Insights:  stubInsights{},
		Sessions:  session.NewManager(kv, "test-secret"),
		Metrics:   m,
	})

	return &testApp{router: router, store: st, dispatcher: dispatcher}
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cartID string
}

func (a *testApp) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cartID != "" {
		req.Header.Set(middleware.CartIDHeader, c.cartID)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, identifier, password string) string {
	t.Helper()
	w := a.do(t, call{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"identifier": identifier,
		"password":   password,
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.User.Password)
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, call{method: http.MethodGet, path: "/health"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestProducts(t *testing.T) {
	app := newTestApp(t)

	t.Run("All", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/products"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]catalog.Product](t, w), 4)
	})

	t.Run("Filter by category and search", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/products?kategori=Sembako&q=minyak"})
		products := decode[[]catalog.Product](t, w)
		require.Len(t, products, 1)
		assert.Equal(t, "P2", products[0].ID)
	})

	t.Run("Not found", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/products/P99"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Categories", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/categories"})
		assert.Equal(t, []string{"Sembako", "Makanan", "Minuman", "Kebutuhan Rumah", "Paket Hemat"}, decode[[]string](t, w))
	})
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	const cartID = "cart-budi"

	for _, id := range []string{"P1", "P1", "P2"} {
		w := app.do(t, call{method: http.MethodPost, path: "/cart/items", cartID: cartID, body: addItemRequest{ProductID: id}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	view := decode[cart.View](t, app.do(t, call{method: http.MethodGet, path: "/cart", cartID: cartID}))
	assert.Equal(t, 3, view.TotalCount)
	assert.Equal(t, int64(188000), view.TotalPrice)

	t.Run("Zero delta is rejected", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPatch, path: "/cart/items/P1", cartID: cartID, body: updateQuantityRequest{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		view := decode[cart.View](t, app.do(t, call{method: http.MethodGet, path: "/cart", cartID: cartID}))
		assert.Equal(t, 3, view.TotalCount)
	})

	checkout := checkoutRequest{PaymentMethod: order.PaymentTransfer, DeliveryMethod: order.DeliveryCourier}

	t.Run("Anonymous checkout is declined", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/checkout", cartID: cartID, body: checkout})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, app.dispatcher.Messages())

		orders, _ := app.store.Orders(context.Background())
		assert.Empty(t, orders)
	})

	token := app.login(t, "budi01", "123")

	t.Run("Invalid payment method", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/checkout", cartID: cartID, token: token,
			body: checkoutRequest{PaymentMethod: "Bitcoin", DeliveryMethod: order.DeliveryCourier}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var placed order.Order
	t.Run("Success", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/checkout", cartID: cartID, token: token, body: checkout})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		res := decode[order.CheckoutResult](t, w)
		placed = res.Order
		assert.Equal(t, int64(188000), res.Order.Total)
		assert.Equal(t, order.StatusPending, res.Order.Status)
		assert.Equal(t, order.PaymentUnpaid, res.Order.PaymentStatus)
		assert.Equal(t, "Budi Santoso", res.Order.Customer)
		assert.Contains(t, res.WhatsAppLink, "https://wa.me/6285282863008?text=")
		assert.NotEmpty(t, res.Instructions)

		view := decode[cart.View](t, app.do(t, call{method: http.MethodGet, path: "/cart", cartID: cartID}))
		assert.Empty(t, view.Lines)

		msgs := app.dispatcher.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, notification.KindOrderConfirmation, msgs[0].Kind)
	})

	t.Run("Empty cart", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/checkout", cartID: cartID, token: token, body: checkout})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("My orders", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/orders/mine", token: token})
		orders := decode[[]order.Order](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, placed.ID, orders[0].ID)
	})

	t.Run("Payment confirmation", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/orders/" + placed.ID + "/confirm-payment", token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, app.dispatcher.Messages(), 2)
	})

	t.Run("Customer cannot use admin routes", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/admin/orders", token: token})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	admin := app.login(t, "superadmin", "123")

	t.Run("Someone else's order", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/orders/" + placed.ID + "/confirm-payment", token: admin})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin completes the order", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPatch, path: "/admin/orders/" + placed.ID + "/status", token: admin, body: statusRequest{Status: "Selesai"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, order.StatusCompleted, decode[order.Order](t, w).Status)

		w = app.do(t, call{method: http.MethodPatch, path: "/admin/orders/" + placed.ID + "/payment-status", token: admin, body: statusRequest{Status: "Paid"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, order.PaymentPaid, decode[order.Order](t, w).PaymentStatus)

		w = app.do(t, call{method: http.MethodPatch, path: "/admin/orders/" + placed.ID + "/status", token: admin, body: statusRequest{Status: "Shipped"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = app.do(t, call{method: http.MethodPatch, path: "/admin/orders/RNI-0/status", token: admin, body: statusRequest{Status: "Selesai"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Paid order cannot ask for confirmation again", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/orders/" + placed.ID + "/confirm-payment", token: token})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Analytics", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodGet, path: "/admin/analytics", token: admin})
		require.Equal(t, http.StatusOK, w.Code)

		res := decode[analyticsResponse](t, w)
		assert.Equal(t, int64(188000), res.Stats.TotalRevenue)
		assert.Equal(t, 1, res.Stats.SelesaiCount)
		require.Len(t, res.Stats.TopProducts, 2)
		assert.Equal(t, analytics.ProductQty{Name: "Beras RNI Premium", Qty: 2}, res.Stats.TopProducts[0])
		assert.Equal(t, "Perbanyak stok beras.", res.Insight.Text)
	})
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	t.Run("Register", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/auth/register", body: user.RegisterInput{
			Name: "Sari", Username: "sari", WA: "08129999", Password: "rahasia",
		}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		u := decode[user.User](t, w)
		assert.Equal(t, user.RoleCustomer, u.Role)
		assert.Equal(t, "628129999", u.WA)
		assert.Empty(t, u.Password)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/auth/register", body: user.RegisterInput{
			Name: "Budi Lain", Username: "budi01", WA: "0811", Password: "rahasia",
		}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login by WhatsApp number", func(t *testing.T) {
		assert.NotEmpty(t, app.login(t, "08129999", "rahasia"))
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/auth/login", body: loginRequest{Identifier: "sari", Password: "salah"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Password reset", func(t *testing.T) {
		w := app.do(t, call{method: http.MethodPost, path: "/auth/verify-identity", body: verifyIdentityRequest{Username: "sari", WA: "0811"}})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = app.do(t, call{method: http.MethodPost, path: "/auth/verify-identity", body: verifyIdentityRequest{Username: "sari", WA: "628129999"}})
		assert.Equal(t, http.StatusOK, w.Code)

		w = app.do(t, call{method: http.MethodPost, path: "/auth/reset-password", body: user.ResetPasswordInput{
			Username: "sari", WA: "628129999", NewPassword: "baru123", ConfirmPassword: "baru124",
		}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = app.do(t, call{method: http.MethodPost, path: "/auth/reset-password", body: user.ResetPasswordInput{
			Username: "sari", WA: "628129999", NewPassword: "baru123", ConfirmPassword: "baru123",
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.NotEmpty(t, app.login(t, "sari", "baru123"))
	})

	t.Run("Logout", func(t *testing.T) {
		token := app.login(t, "budi01", "123")

		w := app.do(t, call{method: http.MethodGet, path: "/me", token: token})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "budi01", decode[user.User](t, w).Username)

		w = app.do(t, call{method: http.MethodPost, path: "/auth/logout", token: token})
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = app.do(t, call{method: http.MethodGet, path: "/me", token: token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminEditsCustomer(t *testing.T) {
	app := newTestApp(t)
	customer := app.login(t, "budi01", "123")
	admin := app.login(t, "superadmin", "123")

	w := app.do(t, call{method: http.MethodPut, path: "/admin/users/budi01", token: admin, body: user.UpdateInput{
		Name: "Budi Santoso", WA: "628123456789", Address: "Jl. Sudirman 1", Role: user.RoleCustomer,
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, call{method: http.MethodGet, path: "/me", token: customer})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jl. Sudirman 1", decode[user.User](t, w).Address)

	w = app.do(t, call{method: http.MethodGet, path: "/admin/users", token: admin})
	for _, u := range decode[[]user.User](t, w) {
		assert.Empty(t, u.Password)
	}
}

func TestAdminInventory(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "superadmin", "123")

	w := app.do(t, call{method: http.MethodPost, path: "/admin/products", token: admin, body: catalog.ProductInput{
		Name: "Teh Botol", Price: 5000, Stock: 24, Type: catalog.TypeUnit, NewCategory: "Minuman Dingin",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[catalog.Product](t, w)
	assert.Equal(t, "Minuman Dingin", created.Category)

	w = app.do(t, call{method: http.MethodPost, path: "/admin/categories", token: admin, body: categoryRequest{Name: "Minuman Dingin"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/admin/products", token: admin, body: catalog.ProductInput{
		Name: "Tanpa Tipe", Price: -1, Type: catalog.TypeUnit,
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, call{method: http.MethodDelete, path: "/admin/products/" + created.ID, token: admin})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/products/" + created.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusNotFound, statusFor(order.ErrOrderNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(cart.ErrMissingCartID))
	assert.Equal(t, http.StatusBadRequest, statusFor(cart.ErrInvalidQuantity))
	assert.Equal(t, http.StatusBadRequest, statusFor(user.ErrInvalidInput))
}
