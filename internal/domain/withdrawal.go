package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// Processable reports whether an admin decision can still be taken.
func (s WithdrawalStatus) Processable() bool {
	return s == WithdrawalStatusPending || s == WithdrawalStatusProcessing
}

type WithdrawalMethod string

const (
	WithdrawalMethodBankTransfer WithdrawalMethod = "bank_transfer"
	WithdrawalMethodPayPal       WithdrawalMethod = "paypal"
	WithdrawalMethodMobileMoney  WithdrawalMethod = "mobile_money"
)

type Withdrawal struct {
	ID              uuid.UUID        `json:"id"`
	ExecutantID     uuid.UUID        `json:"executantId"`
	ExecutantName   string           `json:"executantName"`
	Amount          int64            `json:"amount"` // minor units
	Method          WithdrawalMethod `json:"method"`
	Status          WithdrawalStatus `json:"status"`
	TransactionRef  string           `json:"transactionRef,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	RequestedAt     time.Time        `json:"requestedAt"`
	ProcessedAt     *time.Time       `json:"processedAt,omitempty"`
	ProcessedBy     *uuid.UUID       `json:"processedBy,omitempty"`
}

// WithdrawalDecision is the decision carried by a process request.
type WithdrawalDecision string

const (
	WithdrawalApprove WithdrawalDecision = "approve"
	WithdrawalReject  WithdrawalDecision = "reject"
)

// WithdrawalOutcome is what the repository persists for a processed withdrawal.
type WithdrawalOutcome struct {
	Status         WithdrawalStatus
	TransactionRef string
	Reason         string
	ProcessedBy    uuid.UUID
	ProcessedAt    time.Time
}

type WithdrawalCounts struct {
	Pending       int64
	Processing    int64
	Completed     int64
	Rejected      int64
	PendingAmount int64
	PaidAmount    int64
}

type WithdrawalStats struct {
	Total         int64    `json:"total"`
	Pending       int64    `json:"pending"`
	Processing    int64    `json:"processing"`
	Completed     int64    `json:"completed"`
	Rejected      int64    `json:"rejected"`
	PendingAmount int64    `json:"pendingAmount"`
	PaidAmount    int64    `json:"paidAmount"`
	SuccessRate   *float64 `json:"successRate"`
}

type WithdrawalRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Withdrawal, error)
	List(ctx context.Context, q ListQuery) ([]*Withdrawal, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*WithdrawalCounts, error)
	// Complete records an outcome for a withdrawal that is still pending or
	// processing, returning ErrInvalidTransition otherwise.
	Complete(ctx context.Context, id uuid.UUID, o WithdrawalOutcome) error
}

var WithdrawalSort = SortSpec{
	Fields:       []string{"requestedAt", "amount", "status", "executant"},
	DefaultField: "requestedAt",
	DefaultOrder: SortDesc,
	Statuses: []string{
		string(WithdrawalStatusPending), string(WithdrawalStatusProcessing),
		string(WithdrawalStatusCompleted), string(WithdrawalStatusRejected),
	},
	Types: []string{
		string(WithdrawalMethodBankTransfer), string(WithdrawalMethodPayPal), string(WithdrawalMethodMobileMoney),
	},
}
