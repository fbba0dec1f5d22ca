package auditlog

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// Each action category has its own type so that, say, a withdrawal action
// cannot be logged against a user entity.

type UserAction domain.LogAction

const (
	UserActivated = UserAction(domain.LogActionUserActivated)
	UserSuspended = UserAction(domain.LogActionUserSuspended)
	UserBanned    = UserAction(domain.LogActionUserBanned)
	UserCreated   = UserAction(domain.LogActionUserCreated)
)

// UserActionFor maps a target account status to the matching user action.
func UserActionFor(status domain.UserStatus) UserAction {
	switch status {
	case domain.UserStatusSuspended:
		return UserSuspended
	case domain.UserStatusBanned:
		return UserBanned
	default:
		return UserActivated
	}
}

type TaskAction domain.LogAction

const (
	TaskApproved = TaskAction(domain.LogActionTaskApproved)
	TaskRejected = TaskAction(domain.LogActionTaskRejected)
)

type DisputeAction domain.LogAction

const (
	DisputeStatusChanged = DisputeAction(domain.LogActionDisputeStatusChanged)
	DisputeAssigned      = DisputeAction(domain.LogActionDisputeAssigned)
)

type SanctionAction domain.LogAction

const (
	SanctionApplied = SanctionAction(domain.LogActionSanctionApplied)
	SanctionRevoked = SanctionAction(domain.LogActionSanctionRevoked)
	SanctionExpired = SanctionAction(domain.LogActionSanctionExpired)
)

type WithdrawalAction domain.LogAction

const (
	WithdrawalApproved = WithdrawalAction(domain.LogActionWithdrawalApproved)
	WithdrawalRejected = WithdrawalAction(domain.LogActionWithdrawalRejected)
)

type PaymentAction domain.LogAction

const (
	PaymentCredited = PaymentAction(domain.LogActionPaymentCredited)
	PaymentRefunded = PaymentAction(domain.LogActionPaymentRefunded)
)

type ConfigAction domain.LogAction

const ConfigUpdated = ConfigAction(domain.LogActionConfigUpdated)

func (l *Logger) LogUserAction(ctx context.Context, adminID uuid.UUID, action UserAction, userID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityUser, EntityID: &userID, Details: details})
}

// LogTaskAction records a decision on a task execution.
func (l *Logger) LogTaskAction(ctx context.Context, adminID uuid.UUID, action TaskAction, executionID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityTask, EntityID: &executionID, Details: details})
}

func (l *Logger) LogDisputeAction(ctx context.Context, adminID uuid.UUID, action DisputeAction, disputeID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityDispute, EntityID: &disputeID, Details: details})
}

func (l *Logger) LogSanctionAction(ctx context.Context, adminID uuid.UUID, action SanctionAction, sanctionID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntitySanction, EntityID: &sanctionID, Details: details})
}

func (l *Logger) LogWithdrawalAction(ctx context.Context, adminID uuid.UUID, action WithdrawalAction, withdrawalID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityWithdrawal, EntityID: &withdrawalID, Details: details})
}

// LogPaymentAction records a balance movement; paymentID is the record that
// caused it (an execution or a withdrawal).
func (l *Logger) LogPaymentAction(ctx context.Context, adminID uuid.UUID, action PaymentAction, paymentID uuid.UUID, details map[string]any) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityPayment, EntityID: &paymentID, Details: details})
}

func (l *Logger) LogLogin(ctx context.Context, adminID uuid.UUID) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogActionLogin, EntityType: domain.EntitySession})
}

func (l *Logger) LogLogout(ctx context.Context, adminID uuid.UUID) {
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogActionLogout, EntityType: domain.EntitySession})
}

// LogConfigChange records a settings update. Settings are keyed by name, so
// the key travels in details rather than as an entity id.
func (l *Logger) LogConfigChange(ctx context.Context, adminID uuid.UUID, action ConfigAction, key string, details map[string]any) {
	d := map[string]any{"key": key}
	for k, v := range details {
		d[k] = v
	}
	l.Log(ctx, Entry{AdminID: adminID, Action: domain.LogAction(action), EntityType: domain.EntityConfig, Details: d})
}
