package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type LoginInput struct {
	Body struct {
		Email    string `json:"email,omitempty" doc:"Admin email"`
		Password string `json:"password,omitempty" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refreshToken,omitempty" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type LogoutInput struct{}

// RegisterAuthRoutes registers the public login and refresh operations.
func RegisterAuthRoutes(api huma.API, sessions Sessions) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*Response[*actions.Session], error) {
		return respond(sessions.Login(ctx, input.Body.Email, input.Body.Password))
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*Response[*auth.Tokens], error) {
		return respond(sessions.Refresh(ctx, input.Body.RefreshToken))
	})
}

func registerLogoutRoute(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/v1/auth/logout",
		Summary:     "Logout",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *LogoutInput) (*Response[any], error) {
		return respond(b.Logout(ctx, middleware.IdentityFromContext(ctx)))
	})
}
