package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// ValidationService owns the queue of pending executions and the admin
// decisions taken on them.
type ValidationService struct {
	repo domain.ExecutionRepository
	now  clock
}

func NewValidationService(repo domain.ExecutionRepository) *ValidationService {
	return &ValidationService{repo: repo}
}

// Queue lists pending executions, oldest first by default.
func (s *ValidationService) Queue(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Execution, domain.QueueStats], error) {
	return listPage(ctx, "service.ValidationService.Queue", q, domain.ValidationQueueSort, s.repo.ListPending, s.repo.AggregatePending, queueStats)
}

func (s *ValidationService) Get(ctx context.Context, id uuid.UUID) (*domain.Execution, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ValidationService.Get: %w", err)
	}
	return e, nil
}

// Approve accepts a pending execution and credits its reward to the
// executant. rating, when set, must be between 1 and 5.
func (s *ValidationService) Approve(ctx context.Context, id, by uuid.UUID, rating *int) (*domain.Execution, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fmt.Errorf("service.ValidationService.Approve: %w", domain.Invalid("rating", "must be between 1 and 5"))
	}
	return s.decide(ctx, "service.ValidationService.Approve", id, domain.Decision{
		Status:      domain.ExecutionStatusApproved,
		Rating:      rating,
		ValidatedBy: by,
	})
}

// Reject refuses a pending execution. A reason is mandatory.
func (s *ValidationService) Reject(ctx context.Context, id, by uuid.UUID, reason string) (*domain.Execution, error) {
	reason, err := required("reason", reason)
	if err != nil {
		return nil, fmt.Errorf("service.ValidationService.Reject: %w", err)
	}
	return s.decide(ctx, "service.ValidationService.Reject", id, domain.Decision{
		Status:      domain.ExecutionStatusRejected,
		Reason:      reason,
		ValidatedBy: by,
	})
}

func (s *ValidationService) decide(ctx context.Context, caller string, id uuid.UUID, d domain.Decision) (*domain.Execution, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}
	if e.Status != domain.ExecutionStatusPending {
		return nil, fmt.Errorf("%s: execution %s: %w", caller, e.Status, domain.ErrInvalidTransition)
	}

	d.ValidatedAt = s.now.now()
	if err := s.repo.Decide(ctx, id, d); err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	e.Status = d.Status
	e.Rating = d.Rating
	e.RejectionReason = d.Reason
	e.ValidatedAt = &d.ValidatedAt
	e.ValidatedBy = &d.ValidatedBy
	return e, nil
}

func queueStats(total int64, c *domain.QueueCounts) domain.QueueStats {
	return domain.QueueStats{
		Pending:      total,
		TotalReward:  c.RewardTotal,
		AvgWaitHours: domain.Round1(c.AvgWaitHours),
	}
}

// ValidationHistoryService lists executions that have been decided.
type ValidationHistoryService struct {
	repo domain.ExecutionRepository
}

func NewValidationHistoryService(repo domain.ExecutionRepository) *ValidationHistoryService {
	return &ValidationHistoryService{repo: repo}
}

func (s *ValidationHistoryService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Execution, domain.HistoryStats], error) {
	return listPage(ctx, "service.ValidationHistoryService.List", q, domain.ValidationHistorySort, s.repo.ListValidated, s.repo.AggregateValidated, historyStats)
}

func historyStats(total int64, c *domain.HistoryCounts) domain.HistoryStats {
	return domain.HistoryStats{
		Total:              total,
		Approved:           c.Approved,
		Rejected:           c.Rejected,
		TotalRewardPaid:    c.RewardPaid,
		ApprovalRate:       domain.Rate(c.Approved, c.Approved+c.Rejected),
		AvgValidationHours: domain.Round1(c.AvgValidationHours),
	}
}
