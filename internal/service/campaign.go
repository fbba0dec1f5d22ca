package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

type CampaignService struct {
	repo domain.CampaignRepository
}

func NewCampaignService(repo domain.CampaignRepository) *CampaignService {
	return &CampaignService{repo: repo}
}

func (s *CampaignService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Campaign, domain.CampaignStats], error) {
	return listPage(ctx, "service.CampaignService.List", q, domain.CampaignSort, s.repo.List, s.repo.Aggregate, campaignStats)
}

func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.CampaignService.Get: %w", err)
	}
	return c, nil
}

func campaignStats(total int64, c *domain.CampaignCounts) domain.CampaignStats {
	return domain.CampaignStats{
		Total:          total,
		Draft:          c.Draft,
		Active:         c.Active,
		Paused:         c.Paused,
		Completed:      c.Completed,
		Cancelled:      c.Cancelled,
		TotalBudget:    c.BudgetTotal,
		TotalSpent:     c.SpentTotal,
		CompletionRate: domain.Rate(c.Completed, total),
	}
}
