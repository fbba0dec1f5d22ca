package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
	"github.com/gosuda/backoffice/internal/service"
)

type ListClientsInput struct {
	ListParams
}

type ListExecutantsInput struct {
	ListParams
}

type UpdateUserStatusInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body struct {
		Status string `json:"status,omitempty" doc:"active, suspended or banned"`
	}
}

func registerUserRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/v1/clients",
		Summary:     "List clients",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListClientsInput) (*Response[*actions.ClientPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.ClientPage]("ListClients", id, err))
		}
		return respond(b.ListClients(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/v1/clients/{id}",
		Summary:     "Get a client with recent campaigns",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetByIDInput) (*Response[*service.ClientDetail], error) {
		id := middleware.IdentityFromContext(ctx)
		clientID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*service.ClientDetail]("GetClient", id, err))
		}
		return respond(b.GetClient(ctx, id, clientID))
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-executants",
		Method:      http.MethodGet,
		Path:        "/v1/executants",
		Summary:     "List executants",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListExecutantsInput) (*Response[*actions.ExecutantPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.ExecutantPage]("ListExecutants", id, err))
		}
		return respond(b.ListExecutants(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-executant",
		Method:      http.MethodGet,
		Path:        "/v1/executants/{id}",
		Summary:     "Get an executant",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetByIDInput) (*Response[*domain.Executant], error) {
		id := middleware.IdentityFromContext(ctx)
		executantID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Executant]("GetExecutant", id, err))
		}
		return respond(b.GetExecutant(ctx, id, executantID))
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user-status",
		Method:      http.MethodPatch,
		Path:        "/v1/users/{id}/status",
		Summary:     "Activate, suspend or ban an account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserStatusInput) (*Response[*actions.UserStatusUpdate], error) {
		id := middleware.IdentityFromContext(ctx)
		userID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*actions.UserStatusUpdate]("UpdateUserStatus", id, err))
		}
		return respond(b.UpdateUserStatus(ctx, id, userID, domain.UserStatus(input.Body.Status)))
	})
}
