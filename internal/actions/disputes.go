package actions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/domain"
)

func (a *Actions) ListDisputes(ctx context.Context, id *Identity, q domain.ListQuery, scope domain.DisputeScope) Result[*DisputePage] {
	return gated("ListDisputes", id, func() (*DisputePage, error) {
		return a.disputes.List(ctx, q, scope)
	})
}

func (a *Actions) GetDispute(ctx context.Context, id *Identity, disputeID uuid.UUID) Result[*domain.Dispute] {
	return gated("GetDispute", id, func() (*domain.Dispute, error) {
		return a.disputes.Get(ctx, disputeID)
	})
}

// UpdateDisputeStatus moves a dispute along its lifecycle. Escalations are
// forwarded to the alerter when one is configured.
func (a *Actions) UpdateDisputeStatus(ctx context.Context, id *Identity, disputeID uuid.UUID, to domain.DisputeStatus, resolution string) Result[*domain.Dispute] {
	return gated("UpdateDisputeStatus", id, func() (*domain.Dispute, error) {
		before, err := a.disputes.Transition(ctx, disputeID, to, resolution)
		if err != nil {
			return nil, err
		}

		details := map[string]any{
			"from": string(before.Status),
			"to":   string(to),
		}
		if resolution != "" {
			details["resolution"] = resolution
		}
		a.audit.LogDisputeAction(ctx, id.UserID, auditlog.DisputeStatusChanged, disputeID, details)

		after := *before
		after.Status = to
		after.UpdatedAt = time.Now().UTC()
		if resolution != "" {
			after.Resolution = resolution
		}
		// resolved_at is stamped once, on the first move to a terminal status.
		if (to == domain.DisputeStatusResolved || to == domain.DisputeStatusClosed) && after.ResolvedAt == nil {
			after.ResolvedAt = &after.UpdatedAt
		}

		if to == domain.DisputeStatusEscalated && a.alert != nil {
			a.alert.DisputeEscalated(ctx, &after)
		}
		return &after, nil
	})
}

// AssignDispute hands a dispute to an admin. A nil assignee unassigns it.
func (a *Actions) AssignDispute(ctx context.Context, id *Identity, disputeID uuid.UUID, assignee *uuid.UUID) Result[*domain.Dispute] {
	return gated("AssignDispute", id, func() (*domain.Dispute, error) {
		before, err := a.disputes.Assign(ctx, disputeID, assignee)
		if err != nil {
			return nil, err
		}

		a.audit.LogDisputeAction(ctx, id.UserID, auditlog.DisputeAssigned, disputeID, map[string]any{
			"previous":   before.AssignedTo,
			"assignedTo": assignee,
		})

		after := *before
		after.AssignedTo = assignee
		return &after, nil
	})
}
