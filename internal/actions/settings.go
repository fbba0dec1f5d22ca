package actions

import (
	"context"
	"time"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/domain"
)

func (a *Actions) ListSettings(ctx context.Context, id *Identity) Result[[]*domain.Setting] {
	return gated("ListSettings", id, func() ([]*domain.Setting, error) {
		return a.settings.List(ctx)
	})
}

// UpdateSetting changes a platform setting and records the previous value.
func (a *Actions) UpdateSetting(ctx context.Context, id *Identity, key, value string) Result[*domain.Setting] {
	return gated("UpdateSetting", id, func() (*domain.Setting, error) {
		prev, err := a.settings.Update(ctx, key, value, id.UserID)
		if err != nil {
			return nil, err
		}

		a.audit.LogConfigChange(ctx, id.UserID, auditlog.ConfigUpdated, key, map[string]any{
			"previousValue": prev,
			"newValue":      value,
		})
		return &domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC(), UpdatedBy: &id.UserID}, nil
	})
}
