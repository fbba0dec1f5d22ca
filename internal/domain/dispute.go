package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeStatusPending       DisputeStatus = "pending"
	DisputeStatusInvestigating DisputeStatus = "investigating"
	DisputeStatusResolved      DisputeStatus = "resolved"
	DisputeStatusEscalated     DisputeStatus = "escalated"
	DisputeStatusClosed        DisputeStatus = "closed"
)

func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputeStatusPending, DisputeStatusInvestigating, DisputeStatusResolved,
		DisputeStatusEscalated, DisputeStatusClosed:
		return true
	default:
		return false
	}
}

// ValidTransition checks if a dispute state transition is allowed.
// Allowed: pending->investigating, investigating->resolved|escalated,
// resolved->closed, escalated->closed.
func (s DisputeStatus) ValidTransition(to DisputeStatus) bool {
	switch s {
	case DisputeStatusPending:
		return to == DisputeStatusInvestigating
	case DisputeStatusInvestigating:
		return to == DisputeStatusResolved || to == DisputeStatusEscalated
	case DisputeStatusResolved, DisputeStatusEscalated:
		return to == DisputeStatusClosed
	default:
		return false
	}
}

type DisputeType string

const (
	DisputeTypeQuality    DisputeType = "quality"
	DisputeTypeNonPayment DisputeType = "non_payment"
	DisputeTypeFraud      DisputeType = "fraud"
	DisputeTypeOther      DisputeType = "other"
)

type DisputePriority string

const (
	DisputePriorityLow    DisputePriority = "low"
	DisputePriorityMedium DisputePriority = "medium"
	DisputePriorityHigh   DisputePriority = "high"
	DisputePriorityUrgent DisputePriority = "urgent"
)

// DisputeScope names the status population a dispute page works on. Both the
// item list and its stats are restricted to the scope.
type DisputeScope string

const (
	DisputeScopeAll    DisputeScope = "all"
	DisputeScopeActive DisputeScope = "active"
)

// Statuses returns the statuses included in the scope, nil meaning every status.
func (s DisputeScope) Statuses() []DisputeStatus {
	switch s {
	case DisputeScopeActive:
		return []DisputeStatus{DisputeStatusPending, DisputeStatusInvestigating, DisputeStatusEscalated}
	default:
		return nil
	}
}

type Dispute struct {
	ID            uuid.UUID       `json:"id"`
	ExecutionID   *uuid.UUID      `json:"executionId,omitempty"`
	ClientID      uuid.UUID       `json:"clientId"`
	ClientName    string          `json:"clientName"`
	ExecutantID   uuid.UUID       `json:"executantId"`
	ExecutantName string          `json:"executantName"`
	Type          DisputeType     `json:"type"`
	Priority      DisputePriority `json:"priority"`
	Status        DisputeStatus   `json:"status"`
	Reason        string          `json:"reason"`
	Description   string          `json:"description,omitempty"`
	Resolution    string          `json:"resolution,omitempty"`
	AssignedTo    *uuid.UUID      `json:"assignedTo,omitempty"`
	SubmittedAt   time.Time       `json:"submittedDate"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type DisputeCounts struct {
	Pending            int64
	Investigating      int64
	Resolved           int64
	Escalated          int64
	Closed             int64
	AvgResolutionHours *float64
}

type DisputeStats struct {
	Total              int64    `json:"total"`
	Pending            int64    `json:"pending"`
	Investigating      int64    `json:"investigating"`
	Resolved           int64    `json:"resolved"`
	Escalated          int64    `json:"escalated"`
	Closed             int64    `json:"closed"`
	ResolutionRate     *float64 `json:"resolutionRate"`
	EscalationRate     *float64 `json:"escalationRate"`
	AvgResolutionHours *float64 `json:"avgResolutionHours"`
}

type DisputeRepository interface {
	List(ctx context.Context, q ListQuery, scope DisputeScope) ([]*Dispute, int64, error)
	Aggregate(ctx context.Context, q ListQuery, scope DisputeScope) (*DisputeCounts, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status DisputeStatus, resolution string) error
	Assign(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) error
}

var DisputeSort = SortSpec{
	Fields:       []string{"submittedDate", "priority", "client", "executant", "status"},
	DefaultField: "submittedDate",
	DefaultOrder: SortDesc,
	Statuses: []string{
		string(DisputeStatusPending), string(DisputeStatusInvestigating), string(DisputeStatusResolved),
		string(DisputeStatusEscalated), string(DisputeStatusClosed),
	},
	Types: []string{
		string(DisputeTypeQuality), string(DisputeTypeNonPayment), string(DisputeTypeFraud), string(DisputeTypeOther),
	},
	Priorities: []string{
		string(DisputePriorityLow), string(DisputePriorityMedium), string(DisputePriorityHigh), string(DisputePriorityUrgent),
	},
}
