package actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/service"
)

// ProcessWithdrawalRequest is the admin decision on a withdrawal.
type ProcessWithdrawalRequest struct {
	WithdrawalID   uuid.UUID
	Action         domain.WithdrawalDecision
	Reason         string
	TransactionRef string
}

func (a *Actions) GetValidationQueue(ctx context.Context, id *Identity, q domain.ListQuery) Result[*QueuePage] {
	return gated("GetValidationQueue", id, func() (*QueuePage, error) {
		return a.validations.Queue(ctx, q)
	})
}

func (a *Actions) GetValidationHistory(ctx context.Context, id *Identity, q domain.ListQuery) Result[*HistoryPage] {
	return gated("GetValidationHistory", id, func() (*HistoryPage, error) {
		return a.history.List(ctx, q)
	})
}

// ApproveExecution accepts a pending execution and credits its reward.
func (a *Actions) ApproveExecution(ctx context.Context, id *Identity, executionID uuid.UUID, rating *int) Result[*domain.Execution] {
	return gated("ApproveExecution", id, func() (*domain.Execution, error) {
		e, err := a.validations.Approve(ctx, executionID, id.UserID, rating)
		if err != nil {
			return nil, err
		}

		a.audit.LogTaskAction(ctx, id.UserID, auditlog.TaskApproved, e.ID, map[string]any{
			"executantId": e.ExecutantID,
			"campaignId":  e.CampaignID,
			"reward":      e.Reward,
			"rating":      e.Rating,
		})
		a.audit.LogPaymentAction(ctx, id.UserID, auditlog.PaymentCredited, e.ID, map[string]any{
			"executantId": e.ExecutantID,
			"amount":      e.Reward,
		})
		return e, nil
	})
}

func (a *Actions) RejectExecution(ctx context.Context, id *Identity, executionID uuid.UUID, reason string) Result[*domain.Execution] {
	return gated("RejectExecution", id, func() (*domain.Execution, error) {
		e, err := a.validations.Reject(ctx, executionID, id.UserID, reason)
		if err != nil {
			return nil, err
		}

		a.audit.LogTaskAction(ctx, id.UserID, auditlog.TaskRejected, e.ID, map[string]any{
			"executantId": e.ExecutantID,
			"campaignId":  e.CampaignID,
			"reason":      e.RejectionReason,
		})
		return e, nil
	})
}

func (a *Actions) ListWithdrawals(ctx context.Context, id *Identity, q domain.ListQuery) Result[*WithdrawalPage] {
	return gated("ListWithdrawals", id, func() (*WithdrawalPage, error) {
		return a.withdrawals.List(ctx, q)
	})
}

// ProcessWithdrawal approves or rejects a withdrawal. A rejection refunds the
// amount to the executant balance.
func (a *Actions) ProcessWithdrawal(ctx context.Context, id *Identity, req ProcessWithdrawalRequest) Result[*domain.Withdrawal] {
	return gated("ProcessWithdrawal", id, func() (*domain.Withdrawal, error) {
		w, err := a.withdrawals.Process(ctx, service.ProcessWithdrawalInput{
			ID:             req.WithdrawalID,
			Decision:       req.Action,
			Reason:         req.Reason,
			TransactionRef: req.TransactionRef,
			By:             id.UserID,
		})
		if err != nil {
			return nil, err
		}

		if w.Status == domain.WithdrawalStatusCompleted {
			a.audit.LogWithdrawalAction(ctx, id.UserID, auditlog.WithdrawalApproved, w.ID, map[string]any{
				"executantId":    w.ExecutantID,
				"amount":         w.Amount,
				"method":         string(w.Method),
				"transactionRef": w.TransactionRef,
			})
			return w, nil
		}

		a.audit.LogWithdrawalAction(ctx, id.UserID, auditlog.WithdrawalRejected, w.ID, map[string]any{
			"executantId": w.ExecutantID,
			"amount":      w.Amount,
			"reason":      w.RejectionReason,
		})
		a.audit.LogPaymentAction(ctx, id.UserID, auditlog.PaymentRefunded, w.ID, map[string]any{
			"executantId": w.ExecutantID,
			"amount":      w.Amount,
		})
		return w, nil
	})
}
