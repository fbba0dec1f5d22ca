package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/config"
	"github.com/gosuda/backoffice/internal/store/postgres"
)

func openStore(ctx context.Context, cfg *config.Config) (*postgres.Store, error) {
	if cfg.Database.MaxConns > math.MaxInt32 {
		return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}
	return postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
}

// newActions wires the action layer over store. The returned logger must be
// drained with Wait before the process exits.
func newActions(cfg *config.Config, store *postgres.Store, auditOpts []auditlog.Option, opts ...actions.Option) (*actions.Actions, *auth.Service, *auditlog.Logger) {
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	audit := auditlog.New(store.AdminLogs(), auditOpts...)
	return actions.New(store, authSvc, audit, opts...), authSvc, audit
}
