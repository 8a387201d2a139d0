package handler

import (
	"net/http"

	"rnimart-be/internal/analytics"
	"rnimart-be/internal/insight"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/order"
	"rnimart-be/internal/utils"
)

type checkoutRequest struct {
	PaymentMethod  string `json:"metode_bayar"`
	DeliveryMethod string `json:"jenis_delivery"`
}

type checkoutOptions struct {
	PaymentMethods  []order.PaymentMethod  `json:"payment_methods"`
	DeliveryMethods []order.DeliveryMethod `json:"delivery_methods"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type analyticsResponse struct {
	Stats   analytics.Stats `json:"stats"`
	Insight insight.Insight `json:"insight"`
}

func (h *Handler) checkoutOptions(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, checkoutOptions{
		PaymentMethods:  h.Orders.PaymentMethods(),
		DeliveryMethods: h.Orders.DeliveryMethods(),
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s, _ := middleware.SessionFrom(r.Context())
	c, err := h.Carts.Cart(r.Context(), middleware.CartIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Orders.Checkout(r.Context(), order.CheckoutInput{
		Cart:           c,
		Customer:       &s.User,
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r.Context())
	orders, err := h.Orders.ListByCustomer(r.Context(), s.User.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r.Context())
	res, err := h.Orders.RequestPaymentConfirmation(r.Context(), s.User, chiParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), chiParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.UpdatePaymentStatus(r.Context(), chiParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// analytics never waits for the insight; it returns the latest known text.
func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := analyticsResponse{Stats: stats, Insight: insight.Insight{Text: insight.PlaceholderText}}
	if h.Insights != nil {
		res.Insight = h.Insights.Latest(r.Context(), stats)
	}
	utils.WriteJSON(w, http.StatusOK, res)
}
