package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/config"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server"
)

type stubSessions struct{}

func (stubSessions) Login(_ context.Context, email, _ string) actions.Result[*actions.Session] {
	if email == "" {
		return actions.Result[*actions.Session]{Error: actions.MsgInvalidPrefix + "email", Kind: actions.KindValidation}
	}
	return actions.Result[*actions.Session]{Success: true, Data: &actions.Session{Tokens: &auth.Tokens{AccessToken: "access"}}, Kind: actions.KindOK}
}

func (stubSessions) Refresh(context.Context, string) actions.Result[*auth.Tokens] {
	return actions.Result[*auth.Tokens]{Error: actions.MsgUnauthorized, Kind: actions.KindUnauthenticated}
}

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (*domain.UserProfile, error) {
	return nil, auth.ErrInvalidToken
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newHandler(t *testing.T, health map[string]server.Pinger) http.Handler {
	t.Helper()
	cfg := config.Defaults()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return server.New(ctx, &cfg, server.Deps{
		Sessions:      stubSessions{},
		Authenticator: rejectAll{},
		Health:        health,
	}).Handler()
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	t.Run("all dependencies up", func(t *testing.T) {
		t.Parallel()

		h := newHandler(t, map[string]server.Pinger{
			"postgres": pingFunc(func(context.Context) error { return nil }),
		})
		rec := serve(h, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","postgres":"ok"}`, rec.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		t.Parallel()

		h := newHandler(t, map[string]server.Pinger{
			"postgres": pingFunc(func(context.Context) error { return nil }),
			"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		})
		rec := serve(h, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"degraded","postgres":"ok","redis":"unreachable"}`, rec.Body.String())
	})
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	h := newHandler(t, nil)

	t.Run("login is public", func(t *testing.T) {
		t.Parallel()

		rec := serve(h, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"pw"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
	})

	t.Run("login validation maps to 400", func(t *testing.T) {
		t.Parallel()

		rec := serve(h, http.MethodPost, "/api/auth/login", `{"password":"pw"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("back-office requires a token", func(t *testing.T) {
		t.Parallel()

		for _, path := range []string{"/api/v1/dashboard", "/api/v1/disputes", "/api/v1/admin-logs"} {
			rec := serve(h, http.MethodGet, path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
			assert.JSONEq(t, `{"success":false,"error":"Accès non autorisé"}`, rec.Body.String(), path)
		}
	})

	t.Run("withdrawal processing requires a token", func(t *testing.T) {
		t.Parallel()

		body := `{"withdrawalId":"` + uuid.NewString() + `","action":"approve"}`
		rec := serve(h, http.MethodPost, "/api/withdrawals/process", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("live feed disabled without redis", func(t *testing.T) {
		t.Parallel()

		rec := serve(h, http.MethodGet, "/ws/admin-logs", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("metrics exposed", func(t *testing.T) {
		t.Parallel()

		rec := serve(h, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}
