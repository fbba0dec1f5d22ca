package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// ProcessWithdrawalInput is an admin decision on a withdrawal request.
type ProcessWithdrawalInput struct {
	ID             uuid.UUID
	Decision       domain.WithdrawalDecision
	Reason         string
	TransactionRef string
	By             uuid.UUID
}

type WithdrawalService struct {
	repo domain.WithdrawalRepository
	now  clock
}

func NewWithdrawalService(repo domain.WithdrawalRepository) *WithdrawalService {
	return &WithdrawalService{repo: repo}
}

func (s *WithdrawalService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Withdrawal, domain.WithdrawalStats], error) {
	return listPage(ctx, "service.WithdrawalService.List", q, domain.WithdrawalSort, s.repo.List, s.repo.Aggregate, withdrawalStats)
}

func (s *WithdrawalService) Get(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.WithdrawalService.Get: %w", err)
	}
	return w, nil
}

// Process approves or rejects a pending or processing withdrawal. Approval
// completes it with a transaction reference, generated when none is given.
// Rejection requires a reason and refunds the amount to the executant.
func (s *WithdrawalService) Process(ctx context.Context, in ProcessWithdrawalInput) (*domain.Withdrawal, error) {
	out := domain.WithdrawalOutcome{ProcessedBy: in.By}

	switch in.Decision {
	case domain.WithdrawalApprove:
		out.Status = domain.WithdrawalStatusCompleted
		out.TransactionRef = strings.TrimSpace(in.TransactionRef)
		if out.TransactionRef == "" {
			out.TransactionRef = newTransactionRef()
		}
	case domain.WithdrawalReject:
		reason, err := required("reason", in.Reason)
		if err != nil {
			return nil, fmt.Errorf("service.WithdrawalService.Process: %w", err)
		}
		out.Status = domain.WithdrawalStatusRejected
		out.Reason = reason
	default:
		return nil, fmt.Errorf("service.WithdrawalService.Process: %w", domain.Invalid("action", "must be approve or reject"))
	}

	w, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("service.WithdrawalService.Process: %w", err)
	}
	if !w.Status.Processable() {
		return nil, fmt.Errorf("service.WithdrawalService.Process: withdrawal %s: %w", w.Status, domain.ErrInvalidTransition)
	}

	out.ProcessedAt = s.now.now()
	if err := s.repo.Complete(ctx, in.ID, out); err != nil {
		return nil, fmt.Errorf("service.WithdrawalService.Process: %w", err)
	}

	w.Status = out.Status
	w.TransactionRef = out.TransactionRef
	w.RejectionReason = out.Reason
	w.ProcessedAt = &out.ProcessedAt
	w.ProcessedBy = &out.ProcessedBy
	return w, nil
}

func newTransactionRef() string {
	return "WD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func withdrawalStats(total int64, c *domain.WithdrawalCounts) domain.WithdrawalStats {
	return domain.WithdrawalStats{
		Total:         total,
		Pending:       c.Pending,
		Processing:    c.Processing,
		Completed:     c.Completed,
		Rejected:      c.Rejected,
		PendingAmount: c.PendingAmount,
		PaidAmount:    c.PaidAmount,
		SuccessRate:   domain.Rate(c.Completed, c.Completed+c.Rejected),
	}
}
