package handler

import (
	"net/http"

	"rnimart-be/internal/catalog"
	"rnimart-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name string `json:"nama"`
}

func chiParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// listProducts supports ?kategori= and ?q= (name search).
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.Catalog.List(r.Context(), catalog.ListFilter{
		Category: q.Get("kategori"),
		Search:   q.Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.Context(), chiParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Catalog.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Catalog.Update(r.Context(), chiParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), chiParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := h.Catalog.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, categories)
}
