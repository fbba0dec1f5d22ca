package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type ExecutionRepo struct {
	pool *pgxpool.Pool
}

func NewExecutionRepo(pool *pgxpool.Pool) *ExecutionRepo {
	return &ExecutionRepo{pool: pool}
}

const executionFrom = `FROM executions e
	JOIN tasks t ON t.id = e.task_id
	JOIN campaigns c ON c.id = t.campaign_id
	JOIN user_profiles x ON x.id = e.executant_id`

var executionColumns = `e.id, e.task_id, t.title, c.id, c.title, e.executant_id, ` + fullName("x") + `,
	e.status, t.reward, e.proof_url, e.comment, e.rejection_reason, e.rating,
	e.submitted_at, e.validated_at, e.validated_by`

var queueListing = listing{
	caller:  "executionRepo.ListPending",
	columns: executionColumns,
	from:    executionFrom,
	sorts: map[string]string{
		"submittedAt": "e.submitted_at",
		"reward":      "t.reward",
		"campaign":    "lower(c.title)",
		"executant":   "lower(" + fullName("x") + ")",
	},
	sortKey: "submittedAt",
	id:      "e.id",
}

var historyListing = listing{
	caller:  "executionRepo.ListValidated",
	columns: executionColumns,
	from:    executionFrom,
	sorts: map[string]string{
		"validatedAt": "e.validated_at",
		"submittedAt": "e.submitted_at",
		"reward":      "t.reward",
		"status":      "e.status",
	},
	sortKey: "validatedAt",
	id:      "e.id",
}

func queueFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.add("e.status = 'pending'")
	w.between("e.submitted_at", q.DateFrom, q.DateTo)
	w.search(q.Search, "t.title", "c.title", fullName("x"), "x.email")
	return w
}

func historyFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.add("e.status IN ('approved', 'rejected')")
	w.eq("e.status", q.Status)
	w.between("e.validated_at", q.DateFrom, q.DateTo)
	w.search(q.Search, "t.title", "c.title", fullName("x"), "x.email")
	return w
}

func (r *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Execution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+executionColumns+` `+executionFrom+` WHERE e.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("executionRepo.GetByID: %w", err)
	}

	executions, err := collect(rows, "executionRepo.GetByID", scanExecution)
	if err != nil {
		return nil, err
	}
	if len(executions) == 0 {
		return nil, fmt.Errorf("executionRepo.GetByID: %w", domain.ErrNotFound)
	}

	return executions[0], nil
}

func (r *ExecutionRepo) ListPending(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error) {
	rows, total, err := queueListing.query(ctx, r.pool, queueFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	executions, err := collect(rows, queueListing.caller, scanExecution)
	if err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

func (r *ExecutionRepo) AggregatePending(ctx context.Context, q domain.ListQuery) (*domain.QueueCounts, error) {
	w := queueFilter(q)

	var c domain.QueueCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(t.reward), 0)::bigint,
		        (AVG(EXTRACT(EPOCH FROM (now() - e.submitted_at)) / 3600))::float8
		 `+executionFrom+w.String(),
		w.args...,
	).Scan(&c.Pending, &c.RewardTotal, &c.AvgWaitHours)
	if err != nil {
		return nil, fmt.Errorf("executionRepo.AggregatePending: %w", err)
	}

	return &c, nil
}

func (r *ExecutionRepo) ListValidated(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error) {
	rows, total, err := historyListing.query(ctx, r.pool, historyFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	executions, err := collect(rows, historyListing.caller, scanExecution)
	if err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

func (r *ExecutionRepo) AggregateValidated(ctx context.Context, q domain.ListQuery) (*domain.HistoryCounts, error) {
	w := historyFilter(q)

	var c domain.HistoryCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE e.status = 'approved'),
		        COUNT(*) FILTER (WHERE e.status = 'rejected'),
		        COALESCE(SUM(t.reward) FILTER (WHERE e.status = 'approved'), 0)::bigint,
		        (AVG(EXTRACT(EPOCH FROM (e.validated_at - e.submitted_at)) / 3600))::float8
		 `+executionFrom+w.String(),
		w.args...,
	).Scan(&c.Approved, &c.Rejected, &c.RewardPaid, &c.AvgValidationHours)
	if err != nil {
		return nil, fmt.Errorf("executionRepo.AggregateValidated: %w", err)
	}

	return &c, nil
}

// Decide records the decision on a pending execution. Approval credits the
// task reward to the executant balance in the same transaction.
func (r *ExecutionRepo) Decide(ctx context.Context, id uuid.UUID, d domain.Decision) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("executionRepo.Decide: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var executantID uuid.UUID
	var reward int64
	err = tx.QueryRow(ctx,
		`UPDATE executions e
		 SET status = $1, rejection_reason = $2, rating = $3, validated_at = $4, validated_by = $5
		 FROM tasks t
		 WHERE t.id = e.task_id AND e.id = $6 AND e.status = 'pending'
		 RETURNING e.executant_id, t.reward`,
		d.Status, d.Reason, d.Rating, d.ValidatedAt, d.ValidatedBy, id,
	).Scan(&executantID, &reward)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("executionRepo.Decide: %w", r.missingOrDecided(ctx, id))
	}
	if err != nil {
		return fmt.Errorf("executionRepo.Decide: %w", err)
	}

	if d.Status == domain.ExecutionStatusApproved {
		if _, err := tx.Exec(ctx,
			`UPDATE user_profiles SET balance = balance + $1, updated_at = now() WHERE id = $2`,
			reward, executantID,
		); err != nil {
			return fmt.Errorf("executionRepo.Decide: credit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("executionRepo.Decide: commit: %w", err)
	}

	return nil
}

func (r *ExecutionRepo) missingOrDecided(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM executions WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func scanExecution(rows pgx.Rows) (*domain.Execution, error) {
	var e domain.Execution
	err := rows.Scan(&e.ID, &e.TaskID, &e.TaskTitle, &e.CampaignID, &e.CampaignTitle, &e.ExecutantID, &e.ExecutantName,
		&e.Status, &e.Reward, &e.ProofURL, &e.Comment, &e.RejectionReason, &e.Rating,
		&e.SubmittedAt, &e.ValidatedAt, &e.ValidatedBy)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
