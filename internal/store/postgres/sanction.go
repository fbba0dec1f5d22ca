package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type SanctionRepo struct {
	pool *pgxpool.Pool
}

func NewSanctionRepo(pool *pgxpool.Pool) *SanctionRepo {
	return &SanctionRepo{pool: pool}
}

const sanctionFrom = `FROM sanctions s
	JOIN user_profiles u ON u.id = s.user_id`

var sanctionSorts = map[string]string{
	"createdAt": "s.created_at",
	"endsAt":    "s.ends_at",
	"type":      "s.type",
	"user":      "lower(" + fullName("u") + ")",
}

var sanctionListing = listing{
	caller: "sanctionRepo.List",
	columns: `s.id, s.user_id, ` + fullName("u") + `, u.user_type, s.dispute_id, s.type, s.status, s.reason,
		s.issued_by, s.starts_at, s.ends_at, s.revoked_at, s.revoked_by, s.revoke_reason, s.created_at`,
	from:    sanctionFrom,
	sorts:   sanctionSorts,
	sortKey: "createdAt",
	id:      "s.id",
}

func sanctionFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.eq("s.status", q.Status)
	w.eq("s.type", q.Type)
	w.between("s.created_at", q.DateFrom, q.DateTo)
	w.search(q.Search, "s.reason", fullName("u"), "u.email")
	return w
}

func (r *SanctionRepo) Create(ctx context.Context, s *domain.Sanction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sanctions (id, user_id, dispute_id, type, status, reason, issued_by, starts_at, ends_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.UserID, s.DisputeID, s.Type, s.Status, s.Reason,
		s.IssuedBy, s.StartsAt, s.EndsAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sanctionRepo.Create: %w", err)
	}

	return nil
}

func (r *SanctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sanction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sanctionListing.columns+` `+sanctionFrom+` WHERE s.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("sanctionRepo.GetByID: %w", err)
	}

	sanctions, err := collect(rows, "sanctionRepo.GetByID", scanSanction)
	if err != nil {
		return nil, err
	}
	if len(sanctions) == 0 {
		return nil, fmt.Errorf("sanctionRepo.GetByID: %w", domain.ErrNotFound)
	}

	return sanctions[0], nil
}

func (r *SanctionRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Sanction, int64, error) {
	rows, total, err := sanctionListing.query(ctx, r.pool, sanctionFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	sanctions, err := collect(rows, sanctionListing.caller, scanSanction)
	if err != nil {
		return nil, 0, err
	}

	return sanctions, total, nil
}

func (r *SanctionRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.SanctionCounts, error) {
	w := sanctionFilter(q)

	var c domain.SanctionCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE s.status = 'active'),
		        COUNT(*) FILTER (WHERE s.status = 'expired'),
		        COUNT(*) FILTER (WHERE s.status = 'revoked'),
		        COUNT(*) FILTER (WHERE s.type = 'warning'),
		        COUNT(*) FILTER (WHERE s.type = 'suspension'),
		        COUNT(*) FILTER (WHERE s.type = 'ban')
		 `+sanctionFrom+w.String(),
		w.args...,
	).Scan(&c.Active, &c.Expired, &c.Revoked, &c.Warnings, &c.Suspensions, &c.Bans)
	if err != nil {
		return nil, fmt.Errorf("sanctionRepo.Aggregate: %w", err)
	}

	return &c, nil
}

// Revoke moves an active sanction to revoked. It returns ErrInvalidTransition
// when the sanction exists but is no longer active.
func (r *SanctionRepo) Revoke(ctx context.Context, id, revokedBy uuid.UUID, reason string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sanctions
		 SET status = 'revoked', revoked_at = $1, revoked_by = $2, revoke_reason = $3
		 WHERE id = $4 AND status = 'active'`,
		at, revokedBy, reason, id,
	)
	if err != nil {
		return fmt.Errorf("sanctionRepo.Revoke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sanctionRepo.Revoke: %w", r.missingOrMoved(ctx, id))
	}

	return nil
}

func (r *SanctionRepo) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Sanction, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE sanctions s SET status = 'expired'
		 FROM user_profiles u
		 WHERE u.id = s.user_id AND s.status = 'active' AND s.ends_at IS NOT NULL AND s.ends_at <= $1
		 RETURNING `+sanctionListing.columns,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("sanctionRepo.ExpireDue: %w", err)
	}

	return collect(rows, "sanctionRepo.ExpireDue", scanSanction)
}

func (r *SanctionRepo) CountActiveRestricting(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sanctions
		 WHERE user_id = $1 AND status = 'active' AND type IN ('suspension', 'ban')`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sanctionRepo.CountActiveRestricting: %w", err)
	}

	return n, nil
}

func (r *SanctionRepo) missingOrMoved(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM sanctions WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func scanSanction(rows pgx.Rows) (*domain.Sanction, error) {
	var s domain.Sanction
	err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.UserType, &s.DisputeID, &s.Type, &s.Status, &s.Reason,
		&s.IssuedBy, &s.StartsAt, &s.EndsAt, &s.RevokedAt, &s.RevokedBy, &s.RevokeReason, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
