package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ExecutionStatus string

const (
	ExecutionStatusPending  ExecutionStatus = "pending"
	ExecutionStatusApproved ExecutionStatus = "approved"
	ExecutionStatusRejected ExecutionStatus = "rejected"
)

// Execution is one executant's submission for a task of a campaign.
type Execution struct {
	ID              uuid.UUID       `json:"id"`
	TaskID          uuid.UUID       `json:"taskId"`
	TaskTitle       string          `json:"taskTitle"`
	CampaignID      uuid.UUID       `json:"campaignId"`
	CampaignTitle   string          `json:"campaignTitle"`
	ExecutantID     uuid.UUID       `json:"executantId"`
	ExecutantName   string          `json:"executantName"`
	Status          ExecutionStatus `json:"status"`
	Reward          int64           `json:"reward"` // minor units
	ProofURL        string          `json:"proofUrl,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	Rating          *int            `json:"rating,omitempty"`
	SubmittedAt     time.Time       `json:"submittedAt"`
	ValidatedAt     *time.Time      `json:"validatedAt,omitempty"`
	ValidatedBy     *uuid.UUID      `json:"validatedBy,omitempty"`
}

// Decision is the outcome an admin records for a pending execution.
type Decision struct {
	Status      ExecutionStatus
	Reason      string
	Rating      *int
	ValidatedBy uuid.UUID
	ValidatedAt time.Time
}

type QueueCounts struct {
	Pending      int64
	RewardTotal  int64
	AvgWaitHours *float64
}

type QueueStats struct {
	Pending      int64    `json:"pending"`
	TotalReward  int64    `json:"totalReward"`
	AvgWaitHours *float64 `json:"avgWaitHours"`
}

type HistoryCounts struct {
	Approved           int64
	Rejected           int64
	RewardPaid         int64
	AvgValidationHours *float64
}

type HistoryStats struct {
	Total              int64    `json:"total"`
	Approved           int64    `json:"approved"`
	Rejected           int64    `json:"rejected"`
	TotalRewardPaid    int64    `json:"totalRewardPaid"`
	ApprovalRate       *float64 `json:"approvalRate"`
	AvgValidationHours *float64 `json:"avgValidationHours"`
}

type ExecutionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Execution, error)
	// ListPending and AggregatePending cover the validation queue.
	ListPending(ctx context.Context, q ListQuery) ([]*Execution, int64, error)
	AggregatePending(ctx context.Context, q ListQuery) (*QueueCounts, error)
	// ListValidated and AggregateValidated cover decided executions.
	ListValidated(ctx context.Context, q ListQuery) ([]*Execution, int64, error)
	AggregateValidated(ctx context.Context, q ListQuery) (*HistoryCounts, error)
	// Decide moves a pending execution to approved or rejected. It returns
	// ErrInvalidTransition when the execution is no longer pending.
	Decide(ctx context.Context, id uuid.UUID, d Decision) error
}

var (
	ValidationQueueSort = SortSpec{
		Fields:       []string{"submittedAt", "reward", "campaign", "executant"},
		DefaultField: "submittedAt",
		DefaultOrder: SortAsc,
	}
	ValidationHistorySort = SortSpec{
		Fields:       []string{"validatedAt", "submittedAt", "reward", "status"},
		DefaultField: "validatedAt",
		DefaultOrder: SortDesc,
		Statuses:     []string{string(ExecutionStatusApproved), string(ExecutionStatusRejected)},
	}
)
