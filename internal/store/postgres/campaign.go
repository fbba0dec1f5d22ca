package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignFrom = `FROM campaigns c
	JOIN user_profiles u ON u.id = c.client_id
	LEFT JOIN LATERAL (
		SELECT COUNT(DISTINCT t.id) AS tasks,
		       COALESCE(SUM(t.reward) FILTER (WHERE e.status = 'approved'), 0)::bigint AS spent
		FROM tasks t LEFT JOIN executions e ON e.task_id = t.id
		WHERE t.campaign_id = c.id
	) cs ON true`

var campaignSorts = map[string]string{
	"createdAt": "c.created_at",
	"title":     "lower(c.title)",
	"budget":    "c.budget",
	"status":    "c.status",
}

var campaignListing = listing{
	caller: "campaignRepo.List",
	columns: `c.id, c.client_id, ` + fullName("u") + `, c.title, c.description, c.status, c.budget,
		cs.spent, cs.tasks, c.created_at, c.updated_at`,
	from:    campaignFrom,
	sorts:   campaignSorts,
	sortKey: "createdAt",
	id:      "c.id",
}

func campaignFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.eq("c.status", q.Status)
	w.between("c.created_at", q.DateFrom, q.DateTo)
	w.search(q.Search, "c.title", fullName("u"), "u.company_name")
	return w
}

func (r *CampaignRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Campaign, int64, error) {
	rows, total, err := campaignListing.query(ctx, r.pool, campaignFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	campaigns, err := collect(rows, campaignListing.caller, scanCampaign)
	if err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.CampaignCounts, error) {
	w := campaignFilter(q)

	var c domain.CampaignCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE c.status = 'draft'),
		        COUNT(*) FILTER (WHERE c.status = 'active'),
		        COUNT(*) FILTER (WHERE c.status = 'paused'),
		        COUNT(*) FILTER (WHERE c.status = 'completed'),
		        COUNT(*) FILTER (WHERE c.status = 'cancelled'),
		        COALESCE(SUM(c.budget), 0)::bigint,
		        COALESCE(SUM(cs.spent), 0)::bigint
		 `+campaignFrom+w.String(),
		w.args...,
	).Scan(&c.Draft, &c.Active, &c.Paused, &c.Completed, &c.Cancelled, &c.BudgetTotal, &c.SpentTotal)
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.Aggregate: %w", err)
	}

	return &c, nil
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignListing.columns+` `+campaignFrom+` WHERE c.id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.GetByID: %w", err)
	}

	campaigns, err := collect(rows, "campaignRepo.GetByID", scanCampaign)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, fmt.Errorf("campaignRepo.GetByID: %w", domain.ErrNotFound)
	}

	return campaigns[0], nil
}

func (r *CampaignRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignListing.columns+` `+campaignFrom+`
		 WHERE c.client_id = $1
		 ORDER BY c.created_at DESC, c.id DESC
		 LIMIT $2`,
		clientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.ListByClient: %w", err)
	}

	return collect(rows, "campaignRepo.ListByClient", scanCampaign)
}

func scanCampaign(rows pgx.Rows) (*domain.Campaign, error) {
	var c domain.Campaign
	err := rows.Scan(&c.ID, &c.ClientID, &c.ClientName, &c.Title, &c.Description, &c.Status, &c.Budget,
		&c.Spent, &c.TasksTotal, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
