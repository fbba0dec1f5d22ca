package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type DisputeRepo struct {
	pool *pgxpool.Pool
}

func NewDisputeRepo(pool *pgxpool.Pool) *DisputeRepo {
	return &DisputeRepo{pool: pool}
}

const disputeFrom = `FROM disputes d
	JOIN user_profiles cl ON cl.id = d.client_id
	JOIN user_profiles ex ON ex.id = d.executant_id`

// disputePriorityRank orders priorities by urgency rather than alphabetically.
const disputePriorityRank = `CASE d.priority
	WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

var disputeSorts = map[string]string{
	"submittedDate": "d.submitted_at",
	"priority":      disputePriorityRank,
	"client":        "lower(" + fullName("cl") + ")",
	"executant":     "lower(" + fullName("ex") + ")",
	"status":        "d.status",
}

var disputeListing = listing{
	caller: "disputeRepo.List",
	columns: `d.id, d.execution_id, d.client_id, ` + fullName("cl") + `, d.executant_id, ` + fullName("ex") + `,
		d.type, d.priority, d.status, d.reason, d.description, d.resolution, d.assigned_to,
		d.submitted_at, d.resolved_at, d.updated_at`,
	from:    disputeFrom,
	sorts:   disputeSorts,
	sortKey: "submittedDate",
	id:      "d.id",
}

func disputeFilter(q domain.ListQuery, scope domain.DisputeScope) *whereClause {
	w := &whereClause{}
	if statuses := scope.Statuses(); len(statuses) > 0 {
		codes := make([]string, len(statuses))
		for i, s := range statuses {
			codes[i] = string(s)
		}
		w.in("d.status", codes)
	}
	w.eq("d.status", q.Status)
	w.eq("d.type", q.Type)
	w.eq("d.priority", q.Priority)
	w.eqID("d.assigned_to", q.AssignedTo)
	w.between("d.submitted_at", q.DateFrom, q.DateTo)
	w.search(q.Search, "d.reason", "d.description", fullName("cl"), fullName("ex"), "cl.email", "ex.email")
	return w
}

func (r *DisputeRepo) List(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error) {
	rows, total, err := disputeListing.query(ctx, r.pool, disputeFilter(q, scope), q)
	if err != nil {
		return nil, 0, err
	}

	disputes, err := collect(rows, disputeListing.caller, scanDispute)
	if err != nil {
		return nil, 0, err
	}

	return disputes, total, nil
}

func (r *DisputeRepo) Aggregate(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) (*domain.DisputeCounts, error) {
	w := disputeFilter(q, scope)

	var c domain.DisputeCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE d.status = 'pending'),
		        COUNT(*) FILTER (WHERE d.status = 'investigating'),
		        COUNT(*) FILTER (WHERE d.status = 'resolved'),
		        COUNT(*) FILTER (WHERE d.status = 'escalated'),
		        COUNT(*) FILTER (WHERE d.status = 'closed'),
		        (AVG(EXTRACT(EPOCH FROM (d.resolved_at - d.submitted_at)) / 3600)
		            FILTER (WHERE d.resolved_at IS NOT NULL))::float8
		 `+disputeFrom+w.String(),
		w.args...,
	).Scan(&c.Pending, &c.Investigating, &c.Resolved, &c.Escalated, &c.Closed, &c.AvgResolutionHours)
	if err != nil {
		return nil, fmt.Errorf("disputeRepo.Aggregate: %w", err)
	}

	return &c, nil
}

func (r *DisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+disputeListing.columns+` `+disputeFrom+` WHERE d.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("disputeRepo.GetByID: %w", err)
	}

	disputes, err := collect(rows, "disputeRepo.GetByID", scanDispute)
	if err != nil {
		return nil, err
	}
	if len(disputes) == 0 {
		return nil, fmt.Errorf("disputeRepo.GetByID: %w", domain.ErrNotFound)
	}

	return disputes[0], nil
}

// UpdateStatus sets the status and, when non-empty, the resolution note. The
// first move to resolved or closed stamps resolved_at.
func (r *DisputeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE disputes
		 SET status = $1::text,
		     resolution = CASE WHEN $2::text <> '' THEN $2::text ELSE resolution END,
		     resolved_at = CASE WHEN $1::text IN ('resolved', 'closed') THEN COALESCE(resolved_at, now())
		                        ELSE resolved_at END,
		     updated_at = now()
		 WHERE id = $3`,
		string(status), resolution, id,
	)
	if err != nil {
		return fmt.Errorf("disputeRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("disputeRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DisputeRepo) Assign(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE disputes SET assigned_to = $1, updated_at = now() WHERE id = $2`,
		adminID, id,
	)
	if err != nil {
		return fmt.Errorf("disputeRepo.Assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("disputeRepo.Assign: %w", domain.ErrNotFound)
	}

	return nil
}

func scanDispute(rows pgx.Rows) (*domain.Dispute, error) {
	var d domain.Dispute
	err := rows.Scan(&d.ID, &d.ExecutionID, &d.ClientID, &d.ClientName, &d.ExecutantID, &d.ExecutantName,
		&d.Type, &d.Priority, &d.Status, &d.Reason, &d.Description, &d.Resolution, &d.AssignedTo,
		&d.SubmittedAt, &d.ResolvedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
