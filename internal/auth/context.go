package auth

import (
	"context"
	"strings"
)

type ctxKey string

const (
	userIDKey ctxKey = "auth_user_id"
	roleKey   ctxKey = "auth_user_role"
)

// ContextWithUser stores the authenticated identity in the context. The auth
// middleware populates it; downstream handlers read it.
func ContextWithUser(ctx context.Context, userID string, role Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, strings.TrimSpace(userID))
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// RoleFromContext returns the role claim stored in context.
func RoleFromContext(ctx context.Context) (Role, bool) {
	v, ok := ctx.Value(roleKey).(Role)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
