package session

import (
	"net/http"
	"strings"
)

const CookieName = "access_token"

// ExtractAccessToken reads the session token from the cookie, falling back to
// the Authorization bearer header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
