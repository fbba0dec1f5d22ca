package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogAction is the closed set of privileged actions recorded in the audit trail.
type LogAction string

const (
	LogActionLogin  LogAction = "login"
	LogActionLogout LogAction = "logout"

	LogActionUserActivated LogAction = "user_activated"
	LogActionUserSuspended LogAction = "user_suspended"
	LogActionUserBanned    LogAction = "user_banned"
	LogActionUserCreated   LogAction = "user_created"

	LogActionTaskApproved LogAction = "task_approved"
	LogActionTaskRejected LogAction = "task_rejected"

	LogActionDisputeStatusChanged LogAction = "dispute_status_changed"
	LogActionDisputeAssigned      LogAction = "dispute_assigned"

	LogActionSanctionApplied LogAction = "sanction_applied"
	LogActionSanctionRevoked LogAction = "sanction_revoked"
	LogActionSanctionExpired LogAction = "sanction_expired"

	LogActionWithdrawalApproved LogAction = "withdrawal_approved"
	LogActionWithdrawalRejected LogAction = "withdrawal_rejected"

	LogActionPaymentCredited LogAction = "payment_credited"
	LogActionPaymentRefunded LogAction = "payment_refunded"

	LogActionConfigUpdated LogAction = "config_updated"
)

var LogActions = []string{
	string(LogActionLogin), string(LogActionLogout),
	string(LogActionUserActivated), string(LogActionUserSuspended), string(LogActionUserBanned), string(LogActionUserCreated),
	string(LogActionTaskApproved), string(LogActionTaskRejected),
	string(LogActionDisputeStatusChanged), string(LogActionDisputeAssigned),
	string(LogActionSanctionApplied), string(LogActionSanctionRevoked), string(LogActionSanctionExpired),
	string(LogActionWithdrawalApproved), string(LogActionWithdrawalRejected),
	string(LogActionPaymentCredited), string(LogActionPaymentRefunded),
	string(LogActionConfigUpdated),
}

// EntityType is the kind of record an audit entry refers to.
type EntityType string

const (
	EntityUser       EntityType = "user"
	EntityTask       EntityType = "task"
	EntityDispute    EntityType = "dispute"
	EntitySanction   EntityType = "sanction"
	EntityWithdrawal EntityType = "withdrawal"
	EntityPayment    EntityType = "payment"
	EntityConfig     EntityType = "config"
	EntitySession    EntityType = "session"
)

var EntityTypes = []string{
	string(EntityUser), string(EntityTask), string(EntityDispute), string(EntitySanction),
	string(EntityWithdrawal), string(EntityPayment), string(EntityConfig), string(EntitySession),
}

// AdminLog is one immutable audit record. A zero AdminID marks an action
// performed by the system (for example the sanction expiry sweep).
type AdminLog struct {
	ID         uuid.UUID      `json:"id"`
	AdminID    uuid.UUID      `json:"adminId"`
	AdminName  string         `json:"adminName,omitempty"`
	Action     LogAction      `json:"action"`
	EntityType EntityType     `json:"entityType,omitempty"`
	EntityID   *uuid.UUID     `json:"entityId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type AdminLogCounts struct {
	Total          int64
	DistinctAdmins int64
	ByEntityType   map[EntityType]int64
}

type AdminLogStats struct {
	Total          int64                `json:"total"`
	DistinctAdmins int64                `json:"distinctAdmins"`
	ByEntityType   map[EntityType]int64 `json:"byEntityType"`
}

// AdminLogRepository is append-only: records are never updated or deleted.
type AdminLogRepository interface {
	Create(ctx context.Context, l *AdminLog) error
	List(ctx context.Context, q ListQuery) ([]*AdminLog, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*AdminLogCounts, error)
}

// AdminLogSort filters Type on entity type and Action on the action code.
var AdminLogSort = SortSpec{
	Fields:       []string{"createdAt", "action", "entityType"},
	DefaultField: "createdAt",
	DefaultOrder: SortDesc,
	Types:        EntityTypes,
	Actions:      LogActions,
}
