package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// recentCampaigns is how many campaigns a client detail carries.
const recentCampaigns = 10

// ClientDetail is a client with its latest campaigns.
type ClientDetail struct {
	*domain.Client
	RecentCampaigns []*domain.Campaign `json:"recentCampaigns"`
}

type ClientService struct {
	repo      domain.ClientRepository
	campaigns domain.CampaignRepository
}

func NewClientService(repo domain.ClientRepository, campaigns domain.CampaignRepository) *ClientService {
	return &ClientService{repo: repo, campaigns: campaigns}
}

func (s *ClientService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Client, domain.ClientStats], error) {
	return listPage(ctx, "service.ClientService.List", q, domain.ClientSort, s.repo.List, s.repo.Aggregate, clientStats)
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientDetail, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ClientService.Get: %w", err)
	}

	campaigns, err := s.campaigns.ListByClient(ctx, id, recentCampaigns)
	if err != nil {
		return nil, fmt.Errorf("service.ClientService.Get: campaigns: %w", err)
	}
	if campaigns == nil {
		campaigns = []*domain.Campaign{}
	}

	return &ClientDetail{Client: c, RecentCampaigns: campaigns}, nil
}

func clientStats(total int64, c *domain.ClientCounts) domain.ClientStats {
	var avg *float64
	if total > 0 {
		v := float64(c.SpentTotal) / float64(total)
		avg = domain.Round1(&v)
	}
	return domain.ClientStats{
		Total:          total,
		Active:         c.Active,
		Suspended:      c.Suspended,
		Banned:         c.Banned,
		TotalCampaigns: c.CampaignsTotal,
		TotalSpent:     c.SpentTotal,
		AvgSpent:       avg,
	}
}
