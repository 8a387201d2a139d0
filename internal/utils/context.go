package utils

import "context"

type contextKey string

const (
	UsernameKey contextKey = "username"
	UserRoleKey contextKey = "role"
	SessionKey  contextKey = "session_id"
)

// SetUserContext sets user info into context (called by middleware)
func SetUserContext(ctx context.Context, username, role, sessionID string) context.Context {
	ctx = context.WithValue(ctx, UsernameKey, username)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	ctx = context.WithValue(ctx, SessionKey, sessionID)
	return ctx
}

// GetUsernameFromContext retrieves the logged in username safely
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func GetSessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(SessionKey).(string)
	return sid
}
