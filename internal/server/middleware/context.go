package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserType contextKey = "user_type"
)

// WithIdentity stores the authenticated caller in ctx.
func WithIdentity(ctx context.Context, id actions.Identity) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, id.UserID)
	return context.WithValue(ctx, ContextKeyUserType, id.UserType)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func UserTypeFromContext(ctx context.Context) (domain.UserType, bool) {
	v, ok := ctx.Value(ContextKeyUserType).(domain.UserType)
	return v, ok
}

// IdentityFromContext returns the caller stored by Auth, or nil for an
// anonymous request.
func IdentityFromContext(ctx context.Context) *actions.Identity {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	userType, _ := UserTypeFromContext(ctx)
	return &actions.Identity{UserID: userID, UserType: userType}
}
