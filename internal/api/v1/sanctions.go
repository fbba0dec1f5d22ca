package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ListSanctionsInput struct {
	ListParams
}

type ApplySanctionInput struct {
	Body struct {
		UserID    string     `json:"userId,omitempty" doc:"Sanctioned user ID"`
		DisputeID string     `json:"disputeId,omitempty" doc:"Originating dispute ID"`
		Type      string     `json:"type,omitempty" doc:"warning, suspension or ban"`
		Reason    string     `json:"reason,omitempty" doc:"Reason shown to the user"`
		EndsAt    *time.Time `json:"endsAt,omitempty" doc:"End of a suspension; omitted for permanent sanctions"`
	}
}

type RevokeSanctionInput struct {
	ID   string `path:"id" doc:"Sanction ID"`
	Body struct {
		Reason string `json:"reason,omitempty" doc:"Why the sanction is lifted"`
	}
}

func registerSanctionRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sanctions",
		Method:      http.MethodGet,
		Path:        "/v1/sanctions",
		Summary:     "List sanctions",
		Tags:        []string{"Sanctions"},
	}, func(ctx context.Context, input *ListSanctionsInput) (*Response[*actions.SanctionPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.SanctionPage]("ListSanctions", id, err))
		}
		return respond(b.ListSanctions(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-sanction",
		Method:      http.MethodPost,
		Path:        "/v1/sanctions",
		Summary:     "Apply a sanction to a user",
		Tags:        []string{"Sanctions"},
	}, func(ctx context.Context, input *ApplySanctionInput) (*Response[*domain.Sanction], error) {
		id := middleware.IdentityFromContext(ctx)
		userID, err := parseID("userId", input.Body.UserID)
		if err != nil {
			return respond(actions.Failed[*domain.Sanction]("ApplySanction", id, err))
		}
		disputeID, err := parseOptionalID("disputeId", input.Body.DisputeID)
		if err != nil {
			return respond(actions.Failed[*domain.Sanction]("ApplySanction", id, err))
		}
		return respond(b.ApplySanction(ctx, id, actions.ApplySanctionRequest{
			UserID:    userID,
			DisputeID: disputeID,
			Type:      domain.SanctionType(input.Body.Type),
			Reason:    input.Body.Reason,
			EndsAt:    input.Body.EndsAt,
		}))
	})

	huma.Register(api, huma.Operation{
		OperationID: "revoke-sanction",
		Method:      http.MethodPost,
		Path:        "/v1/sanctions/{id}/revoke",
		Summary:     "Revoke an active sanction",
		Tags:        []string{"Sanctions"},
	}, func(ctx context.Context, input *RevokeSanctionInput) (*Response[*domain.Sanction], error) {
		id := middleware.IdentityFromContext(ctx)
		sanctionID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Sanction]("RevokeSanction", id, err))
		}
		return respond(b.RevokeSanction(ctx, id, sanctionID, input.Body.Reason))
	})
}
