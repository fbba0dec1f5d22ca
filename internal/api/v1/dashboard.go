package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/server/middleware"
	"github.com/gosuda/backoffice/internal/service"
)

type DashboardInput struct{}

func registerDashboardRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Landing overview statistics",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *DashboardInput) (*Response[*service.DashboardStats], error) {
		return respond(b.GetDashboardStats(ctx, middleware.IdentityFromContext(ctx)))
	})
}
