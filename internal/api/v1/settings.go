package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ListSettingsInput struct{}

type UpdateSettingInput struct {
	Key  string `path:"key" doc:"Setting key"`
	Body struct {
		Value string `json:"value,omitempty" doc:"New value"`
	}
}

func registerSettingRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-settings",
		Method:      http.MethodGet,
		Path:        "/v1/settings",
		Summary:     "List platform settings",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, _ *ListSettingsInput) (*Response[[]*domain.Setting], error) {
		return respond(b.ListSettings(ctx, middleware.IdentityFromContext(ctx)))
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-setting",
		Method:      http.MethodPut,
		Path:        "/v1/settings/{key}",
		Summary:     "Update a platform setting",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, input *UpdateSettingInput) (*Response[*domain.Setting], error) {
		return respond(b.UpdateSetting(ctx, middleware.IdentityFromContext(ctx), input.Key, input.Body.Value))
	})
}
