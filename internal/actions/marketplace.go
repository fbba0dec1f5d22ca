package actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/service"
)

// UserStatusUpdate is the result of a manual moderation.
type UserStatusUpdate struct {
	UserID uuid.UUID         `json:"userId"`
	From   domain.UserStatus `json:"previousStatus"`
	To     domain.UserStatus `json:"status"`
}

func (a *Actions) ListCampaigns(ctx context.Context, id *Identity, q domain.ListQuery) Result[*CampaignPage] {
	return gated("ListCampaigns", id, func() (*CampaignPage, error) {
		return a.campaigns.List(ctx, q)
	})
}

func (a *Actions) GetCampaign(ctx context.Context, id *Identity, campaignID uuid.UUID) Result[*domain.Campaign] {
	return gated("GetCampaign", id, func() (*domain.Campaign, error) {
		return a.campaigns.Get(ctx, campaignID)
	})
}

func (a *Actions) ListClients(ctx context.Context, id *Identity, q domain.ListQuery) Result[*ClientPage] {
	return gated("ListClients", id, func() (*ClientPage, error) {
		return a.clients.List(ctx, q)
	})
}

func (a *Actions) GetClient(ctx context.Context, id *Identity, clientID uuid.UUID) Result[*service.ClientDetail] {
	return gated("GetClient", id, func() (*service.ClientDetail, error) {
		return a.clients.Get(ctx, clientID)
	})
}

func (a *Actions) ListExecutants(ctx context.Context, id *Identity, q domain.ListQuery) Result[*ExecutantPage] {
	return gated("ListExecutants", id, func() (*ExecutantPage, error) {
		return a.executants.List(ctx, q)
	})
}

func (a *Actions) GetExecutant(ctx context.Context, id *Identity, executantID uuid.UUID) Result[*domain.Executant] {
	return gated("GetExecutant", id, func() (*domain.Executant, error) {
		return a.executants.Get(ctx, executantID)
	})
}

// UpdateUserStatus activates, suspends or bans a client or executant account.
func (a *Actions) UpdateUserStatus(ctx context.Context, id *Identity, userID uuid.UUID, status domain.UserStatus) Result[*UserStatusUpdate] {
	return gated("UpdateUserStatus", id, func() (*UserStatusUpdate, error) {
		change, err := a.users.SetStatus(ctx, userID, status)
		if err != nil {
			return nil, err
		}

		a.audit.LogUserAction(ctx, id.UserID, auditlog.UserActionFor(change.To), change.UserID, map[string]any{
			"from": string(change.From),
			"to":   string(change.To),
		})
		return &UserStatusUpdate{UserID: change.UserID, From: change.From, To: change.To}, nil
	})
}
