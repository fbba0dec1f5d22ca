package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// ApplySanctionInput is an admin request to sanction a user.
type ApplySanctionInput struct {
	UserID    uuid.UUID
	DisputeID *uuid.UUID
	Type      domain.SanctionType
	Reason    string
	EndsAt    *time.Time // nil means permanent; required for suspensions
	IssuedBy  uuid.UUID
}

// ExpiredSanction pairs a sanction that reached its end with the account
// status it released, if any.
type ExpiredSanction struct {
	Sanction *domain.Sanction
	Change   *StatusChange
}

type SanctionService struct {
	repo  domain.SanctionRepository
	users domain.UserRepository
	now   clock
}

func NewSanctionService(repo domain.SanctionRepository, users domain.UserRepository) *SanctionService {
	return &SanctionService{repo: repo, users: users}
}

func (s *SanctionService) List(ctx context.Context, q domain.ListQuery) (*domain.Page[*domain.Sanction, domain.SanctionStats], error) {
	return listPage(ctx, "service.SanctionService.List", q, domain.SanctionSort, s.repo.List, s.repo.Aggregate, sanctionStats)
}

func (s *SanctionService) Get(ctx context.Context, id uuid.UUID) (*domain.Sanction, error) {
	sn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.SanctionService.Get: %w", err)
	}
	return sn, nil
}

// Apply records a sanction and, for suspensions and bans, restricts the
// account. An account never moves to a less restrictive status here: a
// suspension on a banned account leaves it banned.
func (s *SanctionService) Apply(ctx context.Context, in ApplySanctionInput) (*domain.Sanction, *StatusChange, error) {
	now := s.now.now()

	if !in.Type.Valid() {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", domain.Invalid("type", "unsupported value "+string(in.Type)))
	}
	reason, err := required("reason", in.Reason)
	if err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", err)
	}
	if in.Type == domain.SanctionTypeSuspension && in.EndsAt == nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", domain.Invalid("endsAt", "required for a suspension"))
	}
	if in.EndsAt != nil && !in.EndsAt.After(now) {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", domain.Invalid("endsAt", "must be in the future"))
	}

	u, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: user: %w", err)
	}
	if u.UserType == domain.UserTypeAdmin {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", domain.Invalid("userId", "admin accounts cannot be moderated"))
	}

	sn := &domain.Sanction{
		ID:        uuid.New(),
		UserID:    u.ID,
		UserName:  u.FullName(),
		UserType:  u.UserType,
		DisputeID: in.DisputeID,
		Type:      in.Type,
		Status:    domain.SanctionStatusActive,
		Reason:    reason,
		IssuedBy:  in.IssuedBy,
		StartsAt:  now,
		EndsAt:    in.EndsAt,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, sn); err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: %w", err)
	}

	target := in.Type.UserStatus()
	if severity(target) <= severity(u.Status) {
		return sn, nil, nil
	}
	if err := s.users.UpdateStatus(ctx, u.ID, target); err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Apply: restrict account: %w", err)
	}

	return sn, &StatusChange{UserID: u.ID, From: u.Status, To: target}, nil
}

// Revoke ends an active sanction early. The account is reactivated once it
// holds no other active suspension or ban.
func (s *SanctionService) Revoke(ctx context.Context, id, by uuid.UUID, reason string) (*domain.Sanction, *StatusChange, error) {
	reason, err := required("reason", reason)
	if err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Revoke: %w", err)
	}

	sn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Revoke: %w", err)
	}
	if !sn.Status.ValidTransition(domain.SanctionStatusRevoked) {
		return nil, nil, fmt.Errorf("service.SanctionService.Revoke: sanction %s: %w", sn.Status, domain.ErrInvalidTransition)
	}

	now := s.now.now()
	if err := s.repo.Revoke(ctx, id, by, reason, now); err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Revoke: %w", err)
	}
	sn.Status = domain.SanctionStatusRevoked
	sn.RevokedAt = &now
	sn.RevokedBy = &by
	sn.RevokeReason = reason

	change, err := s.release(ctx, sn)
	if err != nil {
		return nil, nil, fmt.Errorf("service.SanctionService.Revoke: %w", err)
	}
	return sn, change, nil
}

// ExpireDue expires every active sanction past its end and releases the
// accounts left without restriction.
func (s *SanctionService) ExpireDue(ctx context.Context) ([]ExpiredSanction, error) {
	expired, err := s.repo.ExpireDue(ctx, s.now.now())
	if err != nil {
		return nil, fmt.Errorf("service.SanctionService.ExpireDue: %w", err)
	}

	out := make([]ExpiredSanction, 0, len(expired))
	for _, sn := range expired {
		change, err := s.release(ctx, sn)
		if err != nil {
			return out, fmt.Errorf("service.SanctionService.ExpireDue: %w", err)
		}
		out = append(out, ExpiredSanction{Sanction: sn, Change: change})
	}
	return out, nil
}

// release reactivates the sanctioned account when sn was restricting it and
// no other active suspension or ban remains.
func (s *SanctionService) release(ctx context.Context, sn *domain.Sanction) (*StatusChange, error) {
	if sn.Type.UserStatus() == domain.UserStatusActive {
		return nil, nil
	}

	remaining, err := s.repo.CountActiveRestricting(ctx, sn.UserID)
	if err != nil {
		return nil, fmt.Errorf("release: count: %w", err)
	}
	if remaining > 0 {
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, sn.UserID)
	if err != nil {
		return nil, fmt.Errorf("release: user: %w", err)
	}
	if u.Status == domain.UserStatusActive {
		return nil, nil
	}

	if err := s.users.UpdateStatus(ctx, u.ID, domain.UserStatusActive); err != nil {
		return nil, fmt.Errorf("release: update: %w", err)
	}
	return &StatusChange{UserID: u.ID, From: u.Status, To: domain.UserStatusActive}, nil
}

func sanctionStats(total int64, c *domain.SanctionCounts) domain.SanctionStats {
	return domain.SanctionStats{
		Total:          total,
		Active:         c.Active,
		Expired:        c.Expired,
		Revoked:        c.Revoked,
		Warnings:       c.Warnings,
		Suspensions:    c.Suspensions,
		Bans:           c.Bans,
		RevocationRate: domain.Rate(c.Revoked, total),
	}
}
