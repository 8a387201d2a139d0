package handler

import (
	"net/http"

	"rnimart-be/internal/cart"
	"rnimart-be/internal/middleware"
	"rnimart-be/internal/utils"
)

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	v, err := h.Carts.View(r.Context(), middleware.CartIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.Carts.AddItem(r.Context(), middleware.CartIDFrom(r.Context()), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

// updateCartItem applies a signed delta; reaching zero removes the line.
func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.Carts.UpdateQuantity(r.Context(), middleware.CartIDFrom(r.Context()), chiParam(r, "productID"), req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	v, err := h.Carts.RemoveItem(r.Context(), middleware.CartIDFrom(r.Context()), chiParam(r, "productID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), middleware.CartIDFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cart.View{Lines: []cart.Line{}})
}
