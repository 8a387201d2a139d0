package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	CartIDHeader = "X-Cart-ID"
	CartCookie   = "rni_cart"

	cartIDKey contextKey = "cart_id"
)

// CartID gives every client a cart id. It reads the header, then the cookie,
// and otherwise issues a new one in both.
func CartID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CartIDHeader)
		if id == "" {
			if c, err := r.Cookie(CartCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		w.Header().Set(CartIDHeader, id)
		r.Header.Set(CartIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), cartIDKey, id)))
	})
}

func CartIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey).(string)
	return id
}
