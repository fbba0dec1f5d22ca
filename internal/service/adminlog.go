package service

import (
	"context"

	"github.com/gosuda/backoffice/internal/domain"
)

type AdminLogService struct {
	repo domain.AdminLogRepository
}

func NewAdminLogService(repo domain.AdminLogRepository) *AdminLogService {
	return &AdminLogService{repo: repo}
}

func (s *AdminLogService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.AdminLog, domain.AdminLogStats], error) {
	return listPage(ctx, "service.AdminLogService.List", q, domain.AdminLogSort, s.repo.List, s.repo.Aggregate, adminLogStats)
}

func adminLogStats(total int64, c *domain.AdminLogCounts) domain.AdminLogStats {
	by := c.ByEntityType
	if by == nil {
		by = map[domain.EntityType]int64{}
	}
	return domain.AdminLogStats{
		Total:          total,
		DistinctAdmins: c.DistinctAdmins,
		ByEntityType:   by,
	}
}
