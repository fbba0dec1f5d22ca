package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

type DisputeService struct {
	repo  domain.DisputeRepository
	users domain.UserRepository
}

func NewDisputeService(repo domain.DisputeRepository, users domain.UserRepository) *DisputeService {
	return &DisputeService{repo: repo, users: users}
}

// List returns one page of disputes within scope. The stats cover the same
// scope and filters as the items.
func (s *DisputeService) List(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) (*domain.Page[*domain.Dispute, domain.DisputeStats], error) {
	switch scope {
	case "":
		scope = domain.DisputeScopeAll
	case domain.DisputeScopeAll, domain.DisputeScopeActive:
	default:
		return nil, fmt.Errorf("service.DisputeService.List: %w", domain.Invalid("scope", "unsupported value "+string(scope)))
	}

	list := func(ctx context.Context, q domain.ListQuery) ([]*domain.Dispute, int64, error) {
		return s.repo.List(ctx, q, scope)
	}
	aggregate := func(ctx context.Context, q domain.ListQuery) (*domain.DisputeCounts, error) {
		return s.repo.Aggregate(ctx, q, scope)
	}
	return listPage(ctx, "service.DisputeService.List", q, domain.DisputeSort, list, aggregate, disputeStats)
}

func (s *DisputeService) Get(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.DisputeService.Get: %w", err)
	}
	return d, nil
}

// Transition moves a dispute along its lifecycle and returns the dispute as it
// was before the change. Resolving requires a resolution text.
func (s *DisputeService) Transition(ctx context.Context, id uuid.UUID, to domain.DisputeStatus, resolution string) (*domain.Dispute, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("service.DisputeService.Transition: %w", domain.Invalid("status", "unsupported value "+string(to)))
	}
	if to == domain.DisputeStatusResolved {
		var err error
		if resolution, err = required("resolution", resolution); err != nil {
			return nil, fmt.Errorf("service.DisputeService.Transition: %w", err)
		}
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.DisputeService.Transition: %w", err)
	}

	if !d.Status.ValidTransition(to) {
		return nil, fmt.Errorf("service.DisputeService.Transition: %s -> %s: %w", d.Status, to, domain.ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, to, resolution); err != nil {
		return nil, fmt.Errorf("service.DisputeService.Transition: %w", err)
	}

	return d, nil
}

// Assign hands a dispute to an admin, or unassigns it when adminID is nil.
// Closed disputes cannot be reassigned.
func (s *DisputeService) Assign(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*domain.Dispute, error) {
	if adminID != nil {
		u, err := s.users.GetByID(ctx, *adminID)
		if err != nil {
			return nil, fmt.Errorf("service.DisputeService.Assign: assignee: %w", err)
		}
		if u.UserType != domain.UserTypeAdmin {
			return nil, fmt.Errorf("service.DisputeService.Assign: %w", domain.Invalid("assignedTo", "assignee must be an admin"))
		}
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.DisputeService.Assign: %w", err)
	}
	if d.Status == domain.DisputeStatusClosed {
		return nil, fmt.Errorf("service.DisputeService.Assign: dispute closed: %w", domain.ErrInvalidTransition)
	}

	if err := s.repo.Assign(ctx, id, adminID); err != nil {
		return nil, fmt.Errorf("service.DisputeService.Assign: %w", err)
	}

	return d, nil
}

func disputeStats(total int64, c *domain.DisputeCounts) domain.DisputeStats {
	return domain.DisputeStats{
		Total:              total,
		Pending:            c.Pending,
		Investigating:      c.Investigating,
		Resolved:           c.Resolved,
		Escalated:          c.Escalated,
		Closed:             c.Closed,
		ResolutionRate:     domain.Rate(c.Resolved+c.Closed, total),
		EscalationRate:     domain.Rate(c.Escalated, total),
		AvgResolutionHours: domain.Round1(c.AvgResolutionHours),
	}
}
