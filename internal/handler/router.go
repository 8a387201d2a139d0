// Package handler exposes the shop over JSON HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/cart"
	"rnimart-be/internal/catalog"
	"rnimart-be/internal/insight"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/order"
	"rnimart-be/internal/session"
	"rnimart-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Sessions interface {
	Start(ctx context.Context, u user.User) (string, error)
	Current(ctx context.Context, token string) (session.Session, error)
	End(ctx context.Context, s session.Session) error
	Refresh(ctx context.Context, u user.User) error
}

type Insights interface {
	Latest(ctx context.Context, stats analytics.Stats) insight.Insight
}

type Deps struct {
	Catalog   catalog.Service
	Carts     cart.Service
	Orders    order.Service
	Users     user.Service
	Analytics analytics.Service
	Insights  Insights
	Sessions  Sessions
	Metrics   *metrics.Metrics
	Limiter   *middleware.RateLimiter
	// SecureCookies marks the session cookie Secure; off for local http.
	SecureCookies bool
}

type Handler struct {
	Deps
}

func NewRouter(d Deps) *chi.Mux {
	h := &Handler{Deps: d}

	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware, logger.LoggingMiddleware)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(middleware.Auth(d.Sessions))
	r.Use(middleware.CartID)
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", d.Metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Post("/verify-identity", h.verifyIdentity)
		r.Post("/reset-password", h.resetPassword)
	})

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.viewCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Patch("/items/{productID}", h.updateCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
	})

	r.Get("/checkout/options", h.checkoutOptions)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", h.me)
		r.Post("/checkout", h.checkout)
		r.Get("/orders/mine", h.myOrders)
		r.Post("/orders/{id}/confirm-payment", h.confirmPayment)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/categories", h.addCategory)

		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{id}/status", h.updateOrderStatus)
		r.Patch("/orders/{id}/payment-status", h.updatePaymentStatus)

		r.Get("/users", h.listUsers)
		r.Put("/users/{username}", h.updateUser)

		r.Get("/analytics", h.analytics)
	})

	return r
}
