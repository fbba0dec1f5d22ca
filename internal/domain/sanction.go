package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SanctionType string

const (
	SanctionTypeWarning    SanctionType = "warning"
	SanctionTypeSuspension SanctionType = "suspension"
	SanctionTypeBan        SanctionType = "ban"
)

func (t SanctionType) Valid() bool {
	switch t {
	case SanctionTypeWarning, SanctionTypeSuspension, SanctionTypeBan:
		return true
	default:
		return false
	}
}

// UserStatus is the account status a sanction of this type imposes.
func (t SanctionType) UserStatus() UserStatus {
	switch t {
	case SanctionTypeSuspension:
		return UserStatusSuspended
	case SanctionTypeBan:
		return UserStatusBanned
	default:
		return UserStatusActive
	}
}

type SanctionStatus string

const (
	SanctionStatusActive  SanctionStatus = "active"
	SanctionStatusExpired SanctionStatus = "expired"
	SanctionStatusRevoked SanctionStatus = "revoked"
)

// ValidTransition checks if a sanction state transition is allowed.
// Only active sanctions move, to expired or revoked.
func (s SanctionStatus) ValidTransition(to SanctionStatus) bool {
	return s == SanctionStatusActive && (to == SanctionStatusExpired || to == SanctionStatusRevoked)
}

type Sanction struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"userId"`
	UserName     string         `json:"userName"`
	UserType     UserType       `json:"userType"`
	DisputeID    *uuid.UUID     `json:"disputeId,omitempty"`
	Type         SanctionType   `json:"type"`
	Status       SanctionStatus `json:"status"`
	Reason       string         `json:"reason"`
	IssuedBy     uuid.UUID      `json:"issuedBy"`
	StartsAt     time.Time      `json:"startsAt"`
	EndsAt       *time.Time     `json:"endsAt,omitempty"` // nil means permanent
	RevokedAt    *time.Time     `json:"revokedAt,omitempty"`
	RevokedBy    *uuid.UUID     `json:"revokedBy,omitempty"`
	RevokeReason string         `json:"revokeReason,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type SanctionCounts struct {
	Active      int64
	Expired     int64
	Revoked     int64
	Warnings    int64
	Suspensions int64
	Bans        int64
}

type SanctionStats struct {
	Total          int64    `json:"total"`
	Active         int64    `json:"active"`
	Expired        int64    `json:"expired"`
	Revoked        int64    `json:"revoked"`
	Warnings       int64    `json:"warnings"`
	Suspensions    int64    `json:"suspensions"`
	Bans           int64    `json:"bans"`
	RevocationRate *float64 `json:"revocationRate"`
}

type SanctionRepository interface {
	Create(ctx context.Context, s *Sanction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sanction, error)
	List(ctx context.Context, q ListQuery) ([]*Sanction, int64, error)
	Aggregate(ctx context.Context, q ListQuery) (*SanctionCounts, error)
	Revoke(ctx context.Context, id, revokedBy uuid.UUID, reason string, at time.Time) error
	// ExpireDue marks every active sanction whose end is before now as expired
	// and returns the affected sanctions.
	ExpireDue(ctx context.Context, now time.Time) ([]*Sanction, error)
	// CountActiveRestricting counts active suspensions and bans held by a user.
	CountActiveRestricting(ctx context.Context, userID uuid.UUID) (int64, error)
}

var SanctionSort = SortSpec{
	Fields:       []string{"createdAt", "endsAt", "type", "user"},
	DefaultField: "createdAt",
	DefaultOrder: SortDesc,
	Statuses:     []string{string(SanctionStatusActive), string(SanctionStatusExpired), string(SanctionStatusRevoked)},
	Types:        []string{string(SanctionTypeWarning), string(SanctionTypeSuspension), string(SanctionTypeBan)},
}
