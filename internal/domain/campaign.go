package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign is a client-funded unit of work split into tasks.
type Campaign struct {
	ID          uuid.UUID      `json:"id"`
	ClientID    uuid.UUID      `json:"clientId"`
	ClientName  string         `json:"clientName"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      CampaignStatus `json:"status"`
	Budget      int64          `json:"budget"` // minor units
	Spent       int64          `json:"spent"`
	TasksTotal  int64          `json:"tasksTotal"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CampaignCounts struct {
	Draft       int64
	Active      int64
	Paused      int64
	Completed   int64
	Cancelled   int64
	BudgetTotal int64
	SpentTotal  int64
}

type CampaignStats struct {
	Total          int64    `json:"total"`
	Draft          int64    `json:"draft"`
	Active         int64    `json:"active"`
	Paused         int64    `json:"paused"`
	Completed      int64    `json:"completed"`
	Cancelled      int64    `json:"cancelled"`
	TotalBudget    int64    `json:"totalBudget"`
	TotalSpent     int64    `json:"totalSpent"`
	CompletionRate *float64 `json:"completionRate"`
}

type CampaignRepository interface {
	List(ctx context.Context, q ListQuery) ([]*Campaign, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*CampaignCounts, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]*Campaign, error)
}

var CampaignSort = SortSpec{
	Fields:       []string{"createdAt", "title", "budget", "status"},
	DefaultField: "createdAt",
	DefaultOrder: SortDesc,
	Statuses: []string{
		string(CampaignStatusDraft), string(CampaignStatusActive), string(CampaignStatusPaused),
		string(CampaignStatusCompleted), string(CampaignStatusCancelled),
	},
}
