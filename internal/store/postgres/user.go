package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

const pgUniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, user_type, status, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.UserProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_profiles (id, email, password_hash, first_name, last_name, user_type, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.UserType, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("userRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("userRepo.Create: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE lower(email) = lower($1)`, email,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}

	return u, nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_profiles SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("userRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.UserProfile, error) {
	var u domain.UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.UserType, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Clients ---

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

const clientFrom = `FROM user_profiles u
	LEFT JOIN LATERAL (
		SELECT COUNT(*) AS campaigns,
		       COALESCE(SUM(sp.spent), 0)::bigint AS spent
		FROM campaigns c
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(t.reward), 0)::bigint AS spent
			FROM tasks t JOIN executions e ON e.task_id = t.id
			WHERE t.campaign_id = c.id AND e.status = 'approved'
		) sp ON true
		WHERE c.client_id = u.id
	) cs ON true`

var clientSorts = map[string]string{
	"createdAt": "u.created_at",
	"name":      "lower(" + fullName("u") + ")",
	"email":     "lower(u.email)",
	"campaigns": "cs.campaigns",
	"spent":     "cs.spent",
}

var clientListing = listing{
	caller: "clientRepo.List",
	columns: `u.id, u.email, u.first_name, u.last_name, u.user_type, u.status, u.created_at, u.updated_at,
		u.company_name, cs.campaigns, cs.spent`,
	from:    clientFrom,
	sorts:   clientSorts,
	sortKey: "createdAt",
	id:      "u.id",
}

func clientFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.add("u.user_type = 'client'")
	w.eq("u.status", q.Status)
	w.between("u.created_at", q.DateFrom, q.DateTo)
	w.search(q.Search, fullName("u"), "u.email", "u.company_name")
	return w
}

func (r *ClientRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Client, int64, error) {
	rows, total, err := clientListing.query(ctx, r.pool, clientFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	clients, err := collect(rows, clientListing.caller, scanClient)
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *ClientRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.ClientCounts, error) {
	w := clientFilter(q)

	var c domain.ClientCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE u.status = 'active'),
		        COUNT(*) FILTER (WHERE u.status = 'suspended'),
		        COUNT(*) FILTER (WHERE u.status = 'banned'),
		        COALESCE(SUM(cs.campaigns), 0)::bigint,
		        COALESCE(SUM(cs.spent), 0)::bigint
		 `+clientFrom+w.String(),
		w.args...,
	).Scan(&c.Active, &c.Suspended, &c.Banned, &c.CampaignsTotal, &c.SpentTotal)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.Aggregate: %w", err)
	}

	return &c, nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientListing.columns+` `+clientFrom+` WHERE u.user_type = 'client' AND u.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}

	clients, err := collect(rows, "clientRepo.GetByID", scanClient)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("clientRepo.GetByID: %w", domain.ErrNotFound)
	}

	return clients[0], nil
}

func scanClient(rows pgx.Rows) (*domain.Client, error) {
	var c domain.Client
	err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.UserType, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.CompanyName, &c.CampaignsCount, &c.TotalSpent)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// --- Executants ---

type ExecutantRepo struct {
	pool *pgxpool.Pool
}

func NewExecutantRepo(pool *pgxpool.Pool) *ExecutantRepo {
	return &ExecutantRepo{pool: pool}
}

const executantFrom = `FROM user_profiles u
	LEFT JOIN LATERAL (
		SELECT COUNT(*) FILTER (WHERE e.status = 'approved') AS approved,
		       COUNT(*) FILTER (WHERE e.status = 'rejected') AS rejected,
		       AVG(e.rating)::float8 AS rating
		FROM executions e
		WHERE e.executant_id = u.id
	) es ON true`

var executantSorts = map[string]string{
	"createdAt":      "u.created_at",
	"name":           "lower(" + fullName("u") + ")",
	"email":          "lower(u.email)",
	"rating":         "es.rating",
	"completedTasks": "es.approved",
	"balance":        "u.balance",
}

var executantListing = listing{
	caller: "executantRepo.List",
	columns: `u.id, u.email, u.first_name, u.last_name, u.user_type, u.status, u.created_at, u.updated_at,
		es.rating, es.approved, es.rejected, u.balance`,
	from:    executantFrom,
	sorts:   executantSorts,
	sortKey: "createdAt",
	id:      "u.id",
}

func executantFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.add("u.user_type = 'executant'")
	w.eq("u.status", q.Status)
	w.between("u.created_at", q.DateFrom, q.DateTo)
	w.search(q.Search, fullName("u"), "u.email")
	return w
}

func (r *ExecutantRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Executant, int64, error) {
	rows, total, err := executantListing.query(ctx, r.pool, executantFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	executants, err := collect(rows, executantListing.caller, scanExecutant)
	if err != nil {
		return nil, 0, err
	}

	return executants, total, nil
}

func (r *ExecutantRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.ExecutantCounts, error) {
	w := executantFilter(q)

	var c domain.ExecutantCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE u.status = 'active'),
		        COUNT(*) FILTER (WHERE u.status = 'suspended'),
		        COUNT(*) FILTER (WHERE u.status = 'banned'),
		        COALESCE(SUM(es.approved), 0)::bigint,
		        COALESCE(SUM(es.rejected), 0)::bigint,
		        AVG(es.rating)::float8
		 `+executantFrom+w.String(),
		w.args...,
	).Scan(&c.Active, &c.Suspended, &c.Banned, &c.Approved, &c.Rejected, &c.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("executantRepo.Aggregate: %w", err)
	}

	return &c, nil
}

func (r *ExecutantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Executant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+executantListing.columns+` `+executantFrom+` WHERE u.user_type = 'executant' AND u.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("executantRepo.GetByID: %w", err)
	}

	executants, err := collect(rows, "executantRepo.GetByID", scanExecutant)
	if err != nil {
		return nil, err
	}
	if len(executants) == 0 {
		return nil, fmt.Errorf("executantRepo.GetByID: %w", domain.ErrNotFound)
	}

	return executants[0], nil
}

func scanExecutant(rows pgx.Rows) (*domain.Executant, error) {
	var e domain.Executant
	err := rows.Scan(&e.ID, &e.Email, &e.FirstName, &e.LastName, &e.UserType, &e.Status,
		&e.CreatedAt, &e.UpdatedAt, &e.Rating, &e.CompletedTasks, &e.RejectedTasks, &e.Balance)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
