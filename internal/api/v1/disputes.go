package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ListDisputesInput struct {
	ListParams
	Scope string `query:"scope" doc:"Status population: all (default) or active"`
}

type UpdateDisputeStatusInput struct {
	ID   string `path:"id" doc:"Dispute ID"`
	Body struct {
		Status     string `json:"status,omitempty" doc:"Target status"`
		Resolution string `json:"resolution,omitempty" doc:"Required when resolving"`
	}
}

type AssignDisputeInput struct {
	ID   string `path:"id" doc:"Dispute ID"`
	Body struct {
		AssignedTo *string `json:"assignedTo,omitempty" doc:"Admin ID, null to unassign"`
	}
}

func registerDisputeRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-disputes",
		Method:      http.MethodGet,
		Path:        "/v1/disputes",
		Summary:     "List disputes",
		Tags:        []string{"Disputes"},
	}, func(ctx context.Context, input *ListDisputesInput) (*Response[*actions.DisputePage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.DisputePage]("ListDisputes", id, err))
		}
		return respond(b.ListDisputes(ctx, id, q, domain.DisputeScope(input.Scope)))
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-dispute",
		Method:      http.MethodGet,
		Path:        "/v1/disputes/{id}",
		Summary:     "Get a dispute",
		Tags:        []string{"Disputes"},
	}, func(ctx context.Context, input *GetByIDInput) (*Response[*domain.Dispute], error) {
		id := middleware.IdentityFromContext(ctx)
		disputeID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Dispute]("GetDispute", id, err))
		}
		return respond(b.GetDispute(ctx, id, disputeID))
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-dispute-status",
		Method:      http.MethodPatch,
		Path:        "/v1/disputes/{id}/status",
		Summary:     "Move a dispute along its lifecycle",
		Tags:        []string{"Disputes"},
	}, func(ctx context.Context, input *UpdateDisputeStatusInput) (*Response[*domain.Dispute], error) {
		id := middleware.IdentityFromContext(ctx)
		disputeID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Dispute]("UpdateDisputeStatus", id, err))
		}
		return respond(b.UpdateDisputeStatus(ctx, id, disputeID, domain.DisputeStatus(input.Body.Status), input.Body.Resolution))
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-dispute",
		Method:      http.MethodPut,
		Path:        "/v1/disputes/{id}/assignee",
		Summary:     "Assign a dispute to an admin",
		Tags:        []string{"Disputes"},
	}, func(ctx context.Context, input *AssignDisputeInput) (*Response[*domain.Dispute], error) {
		id := middleware.IdentityFromContext(ctx)
		disputeID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Dispute]("AssignDispute", id, err))
		}
		var assignee string
		if input.Body.AssignedTo != nil {
			assignee = *input.Body.AssignedTo
		}
		adminID, err := parseOptionalID("assignedTo", assignee)
		if err != nil {
			return respond(actions.Failed[*domain.Dispute]("AssignDispute", id, err))
		}
		return respond(b.AssignDispute(ctx, id, disputeID, adminID))
	})
}
