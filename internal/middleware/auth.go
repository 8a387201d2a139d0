package middleware

import (
	"context"
	"errors"
	"net/http"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/session"
	"rnimart-be/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver turns a client token into the active session.
type SessionResolver interface {
	Current(ctx context.Context, token string) (session.Session, error)
}

// SessionFrom returns the session attached by Auth, if any.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}

func WithSession(ctx context.Context, s session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	ctx = utils.SetUserContext(ctx, s.User.Username, string(s.User.Role), s.ID)
	return logger.WithUsername(ctx, s.User.Username)
}

// Auth resolves the session token when present. Missing or stale tokens leave
// the request anonymous; RequireAuth decides whether that is acceptable.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.ExtractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := sessions.Current(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrInvalidToken) {
					logger.FromCtx(r.Context()).Error("failed to resolve session", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			utils.WriteJSONError(w, "silakan login terlebih dahulu", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok {
			utils.WriteJSONError(w, "silakan login terlebih dahulu", http.StatusUnauthorized)
			return
		}
		if !s.User.IsAdmin() {
			logger.FromCtx(r.Context()).Warn("admin route refused", zap.String("path", r.URL.Path))
			utils.WriteJSONError(w, "akses khusus admin", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
