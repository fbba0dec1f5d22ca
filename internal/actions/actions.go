// Package actions holds the back-office entry points. Every action takes the
// caller identity explicitly, checks that it is an admin before touching
// storage, delegates to a domain service, records the audit trail after a
// successful mutation and returns a uniform Result envelope.
package actions

import (
	"context"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/service"
)

// Store is the set of repositories the actions depend on.
type Store interface {
	Users() domain.UserRepository
	Clients() domain.ClientRepository
	Executants() domain.ExecutantRepository
	Campaigns() domain.CampaignRepository
	Executions() domain.ExecutionRepository
	Disputes() domain.DisputeRepository
	Sanctions() domain.SanctionRepository
	Withdrawals() domain.WithdrawalRepository
	AdminLogs() domain.AdminLogRepository
	Settings() domain.SettingRepository
}

// Alerter is told about disputes that need attention outside the back-office.
// Implementations must not block.
type Alerter interface {
	DisputeEscalated(ctx context.Context, d *domain.Dispute)
}

// Page types returned by the list actions.
type (
	CampaignPage   = domain.Page[*domain.Campaign, domain.CampaignStats]
	DisputePage    = domain.Page[*domain.Dispute, domain.DisputeStats]
	SanctionPage   = domain.Page[*domain.Sanction, domain.SanctionStats]
	ClientPage     = domain.Page[*domain.Client, domain.ClientStats]
	ExecutantPage  = domain.Page[*domain.Executant, domain.ExecutantStats]
	QueuePage      = domain.Page[*domain.Execution, domain.QueueStats]
	HistoryPage    = domain.Page[*domain.Execution, domain.HistoryStats]
	WithdrawalPage = domain.Page[*domain.Withdrawal, domain.WithdrawalStats]
	AdminLogPage   = domain.Page[*domain.AdminLog, domain.AdminLogStats]
)

type Actions struct {
	auth  *auth.Service
	audit *auditlog.Logger
	alert Alerter

	dashboard   *service.DashboardService
	campaigns   *service.CampaignService
	disputes    *service.DisputeService
	sanctions   *service.SanctionService
	clients     *service.ClientService
	executants  *service.ExecutantService
	users       *service.UserService
	validations *service.ValidationService
	history     *service.ValidationHistoryService
	withdrawals *service.WithdrawalService
	adminLogs   *service.AdminLogService
	settings    *service.SettingService
}

type Option func(*Actions)

// WithAlerter enables escalation alerts.
func WithAlerter(a Alerter) Option {
	return func(x *Actions) { x.alert = a }
}

func New(store Store, authSvc *auth.Service, audit *auditlog.Logger, opts ...Option) *Actions {
	a := &Actions{
		auth:        authSvc,
		audit:       audit,
		campaigns:   service.NewCampaignService(store.Campaigns()),
		disputes:    service.NewDisputeService(store.Disputes(), store.Users()),
		sanctions:   service.NewSanctionService(store.Sanctions(), store.Users()),
		clients:     service.NewClientService(store.Clients(), store.Campaigns()),
		executants:  service.NewExecutantService(store.Executants()),
		users:       service.NewUserService(store.Users()),
		validations: service.NewValidationService(store.Executions()),
		history:     service.NewValidationHistoryService(store.Executions()),
		withdrawals: service.NewWithdrawalService(store.Withdrawals()),
		adminLogs:   service.NewAdminLogService(store.AdminLogs()),
		settings:    service.NewSettingService(store.Settings()),
	}
	a.dashboard = service.NewDashboardService(a.campaigns, a.disputes, a.validations, a.withdrawals, a.clients, a.executants)

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetDashboardStats returns the landing overview.
func (a *Actions) GetDashboardStats(ctx context.Context, id *Identity) Result[*service.DashboardStats] {
	return gated("GetDashboardStats", id, func() (*service.DashboardStats, error) {
		return a.dashboard.Overview(ctx)
	})
}

func (a *Actions) GetAdminLogs(ctx context.Context, id *Identity, q domain.ListQuery) Result[*AdminLogPage] {
	return gated("GetAdminLogs", id, func() (*AdminLogPage, error) {
		return a.adminLogs.List(ctx, q)
	})
}
