package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

type ListCampaignsInput struct {
	ListParams
}

type GetByIDInput struct {
	ID string `path:"id" doc:"Resource ID"`
}

func registerCampaignRoutes(api huma.API, b Backoffice) {
	huma.Register(api, huma.Operation{
		OperationID: "list-campaigns",
		Method:      http.MethodGet,
		Path:        "/v1/campaigns",
		Summary:     "List campaigns",
		Tags:        []string{"Campaigns"},
	}, func(ctx context.Context, input *ListCampaignsInput) (*Response[*actions.CampaignPage], error) {
		id := middleware.IdentityFromContext(ctx)
		q, err := input.Query()
		if err != nil {
			return respond(actions.Failed[*actions.CampaignPage]("ListCampaigns", id, err))
		}
		return respond(b.ListCampaigns(ctx, id, q))
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-campaign",
		Method:      http.MethodGet,
		Path:        "/v1/campaigns/{id}",
		Summary:     "Get a campaign",
		Tags:        []string{"Campaigns"},
	}, func(ctx context.Context, input *GetByIDInput) (*Response[*domain.Campaign], error) {
		id := middleware.IdentityFromContext(ctx)
		campaignID, err := parseID("id", input.ID)
		if err != nil {
			return respond(actions.Failed[*domain.Campaign]("GetCampaign", id, err))
		}
		return respond(b.GetCampaign(ctx, id, campaignID))
	})
}
