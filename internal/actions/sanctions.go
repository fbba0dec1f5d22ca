package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/service"
)

// ApplySanctionRequest is the admin input for a new sanction.
type ApplySanctionRequest struct {
	UserID    uuid.UUID
	DisputeID *uuid.UUID
	Type      domain.SanctionType
	Reason    string
	EndsAt    *time.Time
}

func (a *Actions) ListSanctions(ctx context.Context, id *Identity, q domain.ListQuery) Result[*SanctionPage] {
	return gated("ListSanctions", id, func() (*SanctionPage, error) {
		return a.sanctions.List(ctx, q)
	})
}

// ApplySanction records a sanction and restricts the account when the
// sanction calls for it.
func (a *Actions) ApplySanction(ctx context.Context, id *Identity, req ApplySanctionRequest) Result[*domain.Sanction] {
	return gated("ApplySanction", id, func() (*domain.Sanction, error) {
		sn, change, err := a.sanctions.Apply(ctx, service.ApplySanctionInput{
			UserID:    req.UserID,
			DisputeID: req.DisputeID,
			Type:      req.Type,
			Reason:    req.Reason,
			EndsAt:    req.EndsAt,
			IssuedBy:  id.UserID,
		})
		if err != nil {
			return nil, err
		}

		a.audit.LogSanctionAction(ctx, id.UserID, auditlog.SanctionApplied, sn.ID, map[string]any{
			"userId":    sn.UserID,
			"type":      string(sn.Type),
			"reason":    sn.Reason,
			"endsAt":    sn.EndsAt,
			"disputeId": sn.DisputeID,
		})
		a.logStatusChange(ctx, id.UserID, change, sn.ID)
		return sn, nil
	})
}

// RevokeSanction lifts an active sanction before its end.
func (a *Actions) RevokeSanction(ctx context.Context, id *Identity, sanctionID uuid.UUID, reason string) Result[*domain.Sanction] {
	return gated("RevokeSanction", id, func() (*domain.Sanction, error) {
		sn, change, err := a.sanctions.Revoke(ctx, sanctionID, id.UserID, reason)
		if err != nil {
			return nil, err
		}

		a.audit.LogSanctionAction(ctx, id.UserID, auditlog.SanctionRevoked, sn.ID, map[string]any{
			"userId": sn.UserID,
			"reason": sn.RevokeReason,
		})
		a.logStatusChange(ctx, id.UserID, change, sn.ID)
		return sn, nil
	})
}

// ExpireSanctions closes every active sanction whose end has passed. It is a
// scheduled system operation, so it is not gated and entries carry no actor.
// Sanctions expired before a failure are still audited.
func (a *Actions) ExpireSanctions(ctx context.Context) (int, error) {
	expired, err := a.sanctions.ExpireDue(ctx)

	for _, e := range expired {
		a.audit.LogSanctionAction(ctx, uuid.Nil, auditlog.SanctionExpired, e.Sanction.ID, map[string]any{
			"userId": e.Sanction.UserID,
			"type":   string(e.Sanction.Type),
			"endsAt": e.Sanction.EndsAt,
		})
		a.logStatusChange(ctx, uuid.Nil, e.Change, e.Sanction.ID)
	}

	if err != nil {
		return len(expired), fmt.Errorf("actions.ExpireSanctions: %w", err)
	}
	return len(expired), nil
}

func (a *Actions) logStatusChange(ctx context.Context, by uuid.UUID, change *service.StatusChange, sanctionID uuid.UUID) {
	if change == nil {
		return
	}
	a.audit.LogUserAction(ctx, by, auditlog.UserActionFor(change.To), change.UserID, map[string]any{
		"from":       string(change.From),
		"to":         string(change.To),
		"sanctionId": sanctionID,
	})
}
