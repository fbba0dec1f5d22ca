package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gosuda/backoffice/internal/domain"
)

// dashboardItems is how many urgent disputes and waiting executions the
// overview carries.
const dashboardItems = 5

// DashboardStats is the back-office landing overview.
type DashboardStats struct {
	Campaigns       domain.CampaignStats   `json:"campaigns"`
	Disputes        domain.DisputeStats    `json:"disputes"` // active scope
	ValidationQueue domain.QueueStats      `json:"validationQueue"`
	Withdrawals     domain.WithdrawalStats `json:"withdrawals"`
	Clients         domain.ClientStats     `json:"clients"`
	Executants      domain.ExecutantStats  `json:"executants"`
	UrgentDisputes  []*domain.Dispute      `json:"urgentDisputes"`
	OldestPending   []*domain.Execution    `json:"oldestPending"`
}

type DashboardService struct {
	campaigns   *CampaignService
	disputes    *DisputeService
	validations *ValidationService
	withdrawals *WithdrawalService
	clients     *ClientService
	executants  *ExecutantService
}

func NewDashboardService(
	campaigns *CampaignService,
	disputes *DisputeService,
	validations *ValidationService,
	withdrawals *WithdrawalService,
	clients *ClientService,
	executants *ExecutantService,
) *DashboardService {
	return &DashboardService{
		campaigns:   campaigns,
		disputes:    disputes,
		validations: validations,
		withdrawals: withdrawals,
		clients:     clients,
		executants:  executants,
	}
}

// Overview gathers the stats of every listing with no filter applied, plus
// the most urgent active disputes and the oldest pending executions.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	one := domain.ListQuery{Limit: 1}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.campaigns.List(ctx, one)
		if err != nil {
			return err
		}
		out.Campaigns = p.Stats
		return nil
	})
	g.Go(func() error {
		p, err := s.disputes.List(ctx, domain.ListQuery{
			SortBy:    "priority",
			SortOrder: domain.SortDesc,
			Limit:     dashboardItems,
		}, domain.DisputeScopeActive)
		if err != nil {
			return err
		}
		out.Disputes = p.Stats
		out.UrgentDisputes = p.Items
		return nil
	})
	g.Go(func() error {
		p, err := s.validations.Queue(ctx, domain.ListQuery{Limit: dashboardItems})
		if err != nil {
			return err
		}
		out.ValidationQueue = p.Stats
		out.OldestPending = p.Items
		return nil
	})
	g.Go(func() error {
		p, err := s.withdrawals.List(ctx, one)
		if err != nil {
			return err
		}
		out.Withdrawals = p.Stats
		return nil
	})
	g.Go(func() error {
		p, err := s.clients.List(ctx, one)
		if err != nil {
			return err
		}
		out.Clients = p.Stats
		return nil
	})
	g.Go(func() error {
		p, err := s.executants.List(ctx, one)
		if err != nil {
			return err
		}
		out.Executants = p.Stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.DashboardService.Overview: %w", err)
	}
	return &out, nil
}
