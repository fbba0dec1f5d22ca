package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
)

// Authenticator resolves an access token to the profile of its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.UserProfile, error)
}

const unauthorizedBody = `{"success":false,"error":"` + actions.MsgUnauthorized + `"}`

// Auth requires a valid Bearer access token and stores the caller identity in
// the request context. Whether the caller may use an action is decided by the
// action itself.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				writeJSONError(w, http.StatusUnauthorized, unauthorizedBody)
				return
			}

			user, err := authn.Authenticate(r.Context(), tok)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) {
					log.Error().Err(err).Msg("auth: resolving access token")
				}
				writeJSONError(w, http.StatusUnauthorized, unauthorizedBody)
				return
			}

			ctx := WithIdentity(r.Context(), actions.Identity{UserID: user.ID, UserType: user.UserType})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// Browsers cannot set headers on a websocket upgrade.
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("token")
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
