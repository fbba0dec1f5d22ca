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

type WithdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

const withdrawalFrom = `FROM withdrawals w
	JOIN user_profiles x ON x.id = w.executant_id`

var withdrawalListing = listing{
	caller: "withdrawalRepo.List",
	columns: `w.id, w.executant_id, ` + fullName("x") + `, w.amount, w.method, w.status,
		w.transaction_ref, w.rejection_reason, w.requested_at, w.processed_at, w.processed_by`,
	from: withdrawalFrom,
	sorts: map[string]string{
		"requestedAt": "w.requested_at",
		"amount":      "w.amount",
		"status":      "w.status",
		"executant":   "lower(" + fullName("x") + ")",
	},
	sortKey: "requestedAt",
	id:      "w.id",
}

// withdrawalFilter uses Type for the payout method.
func withdrawalFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.eq("w.status", q.Status)
	w.eq("w.method", q.Type)
	w.between("w.requested_at", q.DateFrom, q.DateTo)
	w.search(q.Search, fullName("x"), "x.email", "w.transaction_ref")
	return w
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+withdrawalListing.columns+` `+withdrawalFrom+` WHERE w.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("withdrawalRepo.GetByID: %w", err)
	}

	withdrawals, err := collect(rows, "withdrawalRepo.GetByID", scanWithdrawal)
	if err != nil {
		return nil, err
	}
	if len(withdrawals) == 0 {
		return nil, fmt.Errorf("withdrawalRepo.GetByID: %w", domain.ErrNotFound)
	}

	return withdrawals[0], nil
}

func (r *WithdrawalRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Withdrawal, int64, error) {
	rows, total, err := withdrawalListing.query(ctx, r.pool, withdrawalFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	withdrawals, err := collect(rows, withdrawalListing.caller, scanWithdrawal)
	if err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

func (r *WithdrawalRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.WithdrawalCounts, error) {
	w := withdrawalFilter(q)

	var c domain.WithdrawalCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE w.status = 'pending'),
		        COUNT(*) FILTER (WHERE w.status = 'processing'),
		        COUNT(*) FILTER (WHERE w.status = 'completed'),
		        COUNT(*) FILTER (WHERE w.status = 'rejected'),
		        COALESCE(SUM(w.amount) FILTER (WHERE w.status IN ('pending', 'processing')), 0)::bigint,
		        COALESCE(SUM(w.amount) FILTER (WHERE w.status = 'completed'), 0)::bigint
		 `+withdrawalFrom+w.String(),
		w.args...,
	).Scan(&c.Pending, &c.Processing, &c.Completed, &c.Rejected, &c.PendingAmount, &c.PaidAmount)
	if err != nil {
		return nil, fmt.Errorf("withdrawalRepo.Aggregate: %w", err)
	}

	return &c, nil
}

// Complete records the outcome of a withdrawal still awaiting a decision. The
// amount was reserved from the balance when requested, so a rejection returns
// it in the same transaction.
func (r *WithdrawalRepo) Complete(ctx context.Context, id uuid.UUID, o domain.WithdrawalOutcome) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("withdrawalRepo.Complete: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var executantID uuid.UUID
	var amount int64
	err = tx.QueryRow(ctx,
		`UPDATE withdrawals
		 SET status = $1, transaction_ref = $2, rejection_reason = $3, processed_by = $4, processed_at = $5
		 WHERE id = $6 AND status IN ('pending', 'processing')
		 RETURNING executant_id, amount`,
		o.Status, o.TransactionRef, o.Reason, o.ProcessedBy, o.ProcessedAt, id,
	).Scan(&executantID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("withdrawalRepo.Complete: %w", r.missingOrProcessed(ctx, id))
	}
	if err != nil {
		return fmt.Errorf("withdrawalRepo.Complete: %w", err)
	}

	if o.Status == domain.WithdrawalStatusRejected {
		if _, err := tx.Exec(ctx,
			`UPDATE user_profiles SET balance = balance + $1, updated_at = now() WHERE id = $2`,
			amount, executantID,
		); err != nil {
			return fmt.Errorf("withdrawalRepo.Complete: refund: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("withdrawalRepo.Complete: commit: %w", err)
	}

	return nil
}

func (r *WithdrawalRepo) missingOrProcessed(ctx context.Context, id uuid.UUID) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM withdrawals WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func scanWithdrawal(rows pgx.Rows) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := rows.Scan(&w.ID, &w.ExecutantID, &w.ExecutantName, &w.Amount, &w.Method, &w.Status,
		&w.TransactionRef, &w.RejectionReason, &w.RequestedAt, &w.ProcessedAt, &w.ProcessedBy)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
