package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

type ExecutantService struct {
	repo domain.ExecutantRepository
}

func NewExecutantService(repo domain.ExecutantRepository) *ExecutantService {
	return &ExecutantService{repo: repo}
}

func (s *ExecutantService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Executant, domain.ExecutantStats], error) {
	return listPage(ctx, "service.ExecutantService.List", q, domain.ExecutantSort, s.repo.List, s.repo.Aggregate, executantStats)
}

func (s *ExecutantService) Get(ctx context.Context, id uuid.UUID) (*domain.Executant, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ExecutantService.Get: %w", err)
	}
	return e, nil
}

// executantStats derives the success rate from decided executions only;
// pending submissions do not count against an executant.
func executantStats(total int64, c *domain.ExecutantCounts) domain.ExecutantStats {
	return domain.ExecutantStats{
		Total:       total,
		Active:      c.Active,
		Suspended:   c.Suspended,
		Banned:      c.Banned,
		SuccessRate: domain.Rate(c.Approved, c.Approved+c.Rejected),
		AvgRating:   domain.Round1(c.AvgRating),
	}
}
