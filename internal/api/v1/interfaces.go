package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/service"
)

// Sessions abstracts the public authentication actions for handler testing.
// *actions.Actions satisfies this interface.
type Sessions interface {
	Login(ctx context.Context, email, password string) actions.Result[*actions.Session]
	Refresh(ctx context.Context, refreshToken string) actions.Result[*auth.Tokens]
}

// Backoffice abstracts the authenticated admin actions for handler testing.
// *actions.Actions satisfies this interface.
type Backoffice interface {
	Logout(ctx context.Context, id *actions.Identity) actions.Result[any]
	GetDashboardStats(ctx context.Context, id *actions.Identity) actions.Result[*service.DashboardStats]

	ListCampaigns(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.CampaignPage]
	GetCampaign(ctx context.Context, id *actions.Identity, campaignID uuid.UUID) actions.Result[*domain.Campaign]

	ListDisputes(ctx context.Context, id *actions.Identity, q domain.ListQuery, scope domain.DisputeScope) actions.Result[*actions.DisputePage]
	GetDispute(ctx context.Context, id *actions.Identity, disputeID uuid.UUID) actions.Result[*domain.Dispute]
	UpdateDisputeStatus(ctx context.Context, id *actions.Identity, disputeID uuid.UUID, to domain.DisputeStatus, resolution string) actions.Result[*domain.Dispute]
	AssignDispute(ctx context.Context, id *actions.Identity, disputeID uuid.UUID, assignee *uuid.UUID) actions.Result[*domain.Dispute]

	ListSanctions(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.SanctionPage]
	ApplySanction(ctx context.Context, id *actions.Identity, req actions.ApplySanctionRequest) actions.Result[*domain.Sanction]
	RevokeSanction(ctx context.Context, id *actions.Identity, sanctionID uuid.UUID, reason string) actions.Result[*domain.Sanction]

	ListClients(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.ClientPage]
	GetClient(ctx context.Context, id *actions.Identity, clientID uuid.UUID) actions.Result[*service.ClientDetail]
	ListExecutants(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.ExecutantPage]
	GetExecutant(ctx context.Context, id *actions.Identity, executantID uuid.UUID) actions.Result[*domain.Executant]
	UpdateUserStatus(ctx context.Context, id *actions.Identity, userID uuid.UUID, status domain.UserStatus) actions.Result[*actions.UserStatusUpdate]

	GetValidationQueue(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.QueuePage]
	ApproveExecution(ctx context.Context, id *actions.Identity, executionID uuid.UUID, rating *int) actions.Result[*domain.Execution]
	RejectExecution(ctx context.Context, id *actions.Identity, executionID uuid.UUID, reason string) actions.Result[*domain.Execution]
	GetValidationHistory(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.HistoryPage]

	ListWithdrawals(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.WithdrawalPage]
	ProcessWithdrawal(ctx context.Context, id *actions.Identity, req actions.ProcessWithdrawalRequest) actions.Result[*domain.Withdrawal]

	GetAdminLogs(ctx context.Context, id *actions.Identity, q domain.ListQuery) actions.Result[*actions.AdminLogPage]
	ListSettings(ctx context.Context, id *actions.Identity) actions.Result[[]*domain.Setting]
	UpdateSetting(ctx context.Context, id *actions.Identity, key, value string) actions.Result[*domain.Setting]
}
