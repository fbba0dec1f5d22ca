package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
)

// Session is what a successful login returns.
type Session struct {
	*auth.Tokens
	User *domain.UserProfile `json:"user"`
}

// Login checks admin credentials. Missing credentials are rejected without
// contacting storage.
func (a *Actions) Login(ctx context.Context, email, password string) Result[*Session] {
	const name = "Login"

	if strings.TrimSpace(email) == "" {
		return invalid[*Session](name, "email", "required")
	}
	if password == "" {
		return invalid[*Session](name, "password", "required")
	}

	user, tokens, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return fail[*Session](name, err)
	}

	a.audit.LogLogin(ctx, user.ID)
	return ok(name, &Session{Tokens: tokens, User: user})
}

// Refresh exchanges a refresh token for a new access token.
func (a *Actions) Refresh(ctx context.Context, refreshToken string) Result[*auth.Tokens] {
	const name = "Refresh"

	if refreshToken == "" {
		return invalid[*auth.Tokens](name, "refreshToken", "required")
	}

	tokens, err := a.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return fail[*auth.Tokens](name, err)
	}
	return ok(name, tokens)
}

// Logout records the end of an admin session. Tokens are stateless and
// expire on their own.
func (a *Actions) Logout(ctx context.Context, id *Identity) Result[any] {
	return gated("Logout", id, func() (any, error) {
		a.audit.LogLogout(ctx, id.UserID)
		return nil, nil
	})
}

// CreateAdmin provisions an admin account. It is a system operation run from
// the command line, so it is not gated and is audited with no actor.
func (a *Actions) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*domain.UserProfile, error) {
	u, err := a.auth.CreateAdmin(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("actions.CreateAdmin: %w", err)
	}

	a.audit.LogUserAction(ctx, uuid.Nil, auditlog.UserCreated, u.ID, map[string]any{
		"email":    u.Email,
		"userType": string(u.UserType),
	})
	return u, nil
}
