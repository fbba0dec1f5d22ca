package v1_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/actions"
	v1 "github.com/gosuda/backoffice/internal/api/v1"
	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/domain/domaintest"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

const testSecret = "test-secret-key-for-unit-tests-32b"

// ---------------------------------------------------------------------------
// Context helpers: inject the caller identity for DoCtx
// ---------------------------------------------------------------------------

func identityCtx(ut domain.UserType) context.Context {
	return middleware.WithIdentity(context.Background(), actions.Identity{UserID: uuid.New(), UserType: ut})
}

func adminCtx() context.Context {
	return identityCtx(domain.UserTypeAdmin)
}

// ---------------------------------------------------------------------------
// API setup
// ---------------------------------------------------------------------------

// newAPI registers every route over real actions backed by store fakes.
// Fakes panic on unexpected calls, so an untouched repository proves a
// request never reached storage.
func newAPI(t *testing.T, store *domaintest.Store) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	audit := auditlog.New(store.AdminLogs())
	t.Cleanup(audit.Wait)

	acts := actions.New(store, auth.NewService(store.Users(), testSecret, 15*time.Minute, time.Hour), audit)
	v1.RegisterAuthRoutes(api, acts)
	v1.RegisterRoutes(api, acts)
	return api
}

// envelope is the decoded shape of every action response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}
