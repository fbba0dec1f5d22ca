package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserType is the declared role of a platform account. Only UserTypeAdmin may
// use the back-office.
type UserType string

const (
	UserTypeAdmin     UserType = "admin"
	UserTypeClient    UserType = "client"
	UserTypeExecutant UserType = "executant"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return true
	default:
		return false
	}
}

var UserStatuses = []string{string(UserStatusActive), string(UserStatusSuspended), string(UserStatusBanned)}

// UserProfile is a row of user_profiles.
type UserProfile struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // argon2id, empty for accounts that never log in here
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	UserType     UserType   `json:"userType"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status UserStatus) error
}

// Client is a client account with its campaign aggregates.
type Client struct {
	UserProfile
	CompanyName    string `json:"companyName,omitempty"`
	CampaignsCount int64  `json:"campaignsCount"`
	TotalSpent     int64  `json:"totalSpent"`
}

type ClientCounts struct {
	Active         int64
	Suspended      int64
	Banned         int64
	CampaignsTotal int64
	SpentTotal     int64
}

type ClientStats struct {
	Total          int64    `json:"total"`
	Active         int64    `json:"active"`
	Suspended      int64    `json:"suspended"`
	Banned         int64    `json:"banned"`
	TotalCampaigns int64    `json:"totalCampaigns"`
	TotalSpent     int64    `json:"totalSpent"`
	AvgSpent       *float64 `json:"avgSpent"`
}

type ClientRepository interface {
	List(ctx context.Context, q ListQuery) ([]*Client, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*ClientCounts, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
}

// Executant is a worker account with its execution aggregates.
type Executant struct {
	UserProfile
	Rating         *float64 `json:"rating"`
	CompletedTasks int64    `json:"completedTasks"`
	RejectedTasks  int64    `json:"rejectedTasks"`
	Balance        int64    `json:"balance"`
}

type ExecutantCounts struct {
	Active    int64
	Suspended int64
	Banned    int64
	Approved  int64
	Rejected  int64
	AvgRating *float64
}

type ExecutantStats struct {
	Total       int64    `json:"total"`
	Active      int64    `json:"active"`
	Suspended   int64    `json:"suspended"`
	Banned      int64    `json:"banned"`
	SuccessRate *float64 `json:"successRate"`
	AvgRating   *float64 `json:"avgRating"`
}

type ExecutantRepository interface {
	List(ctx context.Context, q ListQuery) ([]*Executant, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*ExecutantCounts, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Executant, error)
}

var (
	ClientSort = SortSpec{
		Fields:       []string{"createdAt", "name", "email", "campaigns", "spent"},
		DefaultField: "createdAt",
		DefaultOrder: SortDesc,
		Statuses:     UserStatuses,
	}
	ExecutantSort = SortSpec{
		Fields:       []string{"createdAt", "name", "email", "rating", "completedTasks", "balance"},
		DefaultField: "createdAt",
		DefaultOrder: SortDesc,
		Statuses:     UserStatuses,
	}
)
