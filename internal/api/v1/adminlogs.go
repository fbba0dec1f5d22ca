package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type AdminLogsInput struct {
	ListParams
}

func registerAdminLogRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-admin-logs",
		Method:      http.MethodGet,
		Path:        "/v1/admin-logs",
		Summary:     "Audit trail of admin actions",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *AdminLogsInput) (*Response[*actions.AdminLogPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.AdminLogPage]("GetAdminLogs", id, err))
		}
		return respond(b.GetAdminLogs(ctx, id, q))
	})
}
