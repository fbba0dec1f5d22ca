//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/store/postgres"
)

type fixture struct {
	store *postgres.Store
	pool  *pgxpool.Pool
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice"),
		tcpostgres.WithUsername("backoffice"),
		tcpostgres.WithPassword("backoffice"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.Migrate(ctx, dsn, "up"))

	store, err := postgres.New(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &fixture{store: store, pool: pool}
}

func (f *fixture) user(t *testing.T, typ domain.UserType, first, last string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.UserProfile{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: first,
		LastName:  last,
		UserType:  typ,
		Status:    domain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) exec(t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := f.pool.Exec(context.Background(), sql, args...)
	require.NoError(t, err)
}

func TestDisputes_PendingPage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	client := f.user(t, domain.UserTypeClient, "Claire", "Durand")
	worker := f.user(t, domain.UserTypeExecutant, "Marc", "Petit")

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := range 30 {
		status := "pending"
		if i >= 25 {
			status = "resolved"
		}
		f.exec(t,
			`INSERT INTO disputes (id, client_id, executant_id, type, priority, status, reason, submitted_at)
			 VALUES ($1, $2, $3, 'quality', 'medium', $4, 'Livrable incomplet', $5)`,
			uuid.New(), client, worker, status, base.Add(time.Duration(i)*time.Hour),
		)
	}

	q, err := domain.ListQuery{
		Status: "pending", Page: 1, Limit: 20, SortBy: "submittedDate", SortOrder: domain.SortDesc,
	}.Normalize(domain.DisputeSort)
	require.NoError(t, err)

	items, total, err := f.store.Disputes().List(ctx, q, domain.DisputeScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, items, 20)
	assert.Equal(t, 2, domain.TotalPages(total, q.Limit))
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].SubmittedAt.After(items[i-1].SubmittedAt), "not sorted desc at %d", i)
	}
	assert.Equal(t, "Claire Durand", items[0].ClientName)

	q.Page = 2
	items, _, err = f.store.Disputes().List(ctx, q, domain.DisputeScopeAll)
	require.NoError(t, err)
	assert.Len(t, items, 5)

	counts, err := f.store.Disputes().Aggregate(ctx, q, domain.DisputeScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(25), counts.Pending)
	assert.Zero(t, counts.Resolved)

	// "all" behaves exactly like omitting the filter.
	all, err := domain.ListQuery{Status: "all"}.Normalize(domain.DisputeSort)
	require.NoError(t, err)
	_, totalAll, err := f.store.Disputes().List(ctx, all, domain.DisputeScopeAll)
	require.NoError(t, err)
	_, totalNone, err := f.store.Disputes().List(ctx, domain.ListQuery{Page: 1, Limit: 20, SortBy: "submittedDate"}, domain.DisputeScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(30), totalAll)
	assert.Equal(t, totalNone, totalAll)

	// The active scope leaves resolved disputes out of both items and stats.
	active, err := f.store.Disputes().Aggregate(ctx, all, domain.DisputeScopeActive)
	require.NoError(t, err)
	assert.Equal(t, int64(25), active.Pending)
	assert.Zero(t, active.Resolved)
}

func TestExecutions_ApproveCreditsBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, domain.UserTypeAdmin, "Alice", "Admin")
	client := f.user(t, domain.UserTypeClient, "Claire", "Durand")
	worker := f.user(t, domain.UserTypeExecutant, "Marc", "Petit")

	campaign, task, execution := uuid.New(), uuid.New(), uuid.New()
	f.exec(t, `INSERT INTO campaigns (id, client_id, title, status, budget) VALUES ($1, $2, 'Sondage', 'active', 100000)`,
		campaign, client)
	f.exec(t, `INSERT INTO tasks (id, campaign_id, title, reward) VALUES ($1, $2, 'Répondre', 250)`, task, campaign)
	f.exec(t, `INSERT INTO executions (id, task_id, executant_id) VALUES ($1, $2, $3)`, execution, task, worker)

	queue, total, err := f.store.Executions().ListPending(ctx, domain.ListQuery{Page: 1, Limit: 20, SortBy: "submittedAt"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, queue, 1)
	assert.Equal(t, int64(250), queue[0].Reward)

	decision := domain.Decision{
		Status:      domain.ExecutionStatusApproved,
		ValidatedBy: admin,
		ValidatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.Executions().Decide(ctx, execution, decision))

	ex, err := f.store.Executants().GetByID(ctx, worker)
	require.NoError(t, err)
	assert.Equal(t, int64(250), ex.Balance)
	assert.Equal(t, int64(1), ex.CompletedTasks)

	err = f.store.Executions().Decide(ctx, execution, decision)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = f.store.Executions().Decide(ctx, uuid.New(), decision)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := f.store.Campaigns().GetByID(ctx, campaign)
	require.NoError(t, err)
	assert.Equal(t, int64(250), c.Spent)
}

func TestWithdrawals_RejectRefunds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, domain.UserTypeAdmin, "Alice", "Admin")
	worker := f.user(t, domain.UserTypeExecutant, "Marc", "Petit")

	id := uuid.New()
	f.exec(t, `INSERT INTO withdrawals (id, executant_id, amount, method) VALUES ($1, $2, 5000, 'paypal')`, id, worker)

	err := f.store.Withdrawals().Complete(ctx, id, domain.WithdrawalOutcome{
		Status:      domain.WithdrawalStatusRejected,
		Reason:      "IBAN invalide",
		ProcessedBy: admin,
		ProcessedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	ex, err := f.store.Executants().GetByID(ctx, worker)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), ex.Balance)

	w, err := f.store.Withdrawals().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusRejected, w.Status)
	assert.Equal(t, "IBAN invalide", w.RejectionReason)

	err = f.store.Withdrawals().Complete(ctx, id, domain.WithdrawalOutcome{Status: domain.WithdrawalStatusCompleted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSanctions_ExpireDue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, domain.UserTypeAdmin, "Alice", "Admin")
	worker := f.user(t, domain.UserTypeExecutant, "Marc", "Petit")

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	for _, ends := range []*time.Time{&past, &future, nil} {
		require.NoError(t, f.store.Sanctions().Create(ctx, &domain.Sanction{
			ID: uuid.New(), UserID: worker, Type: domain.SanctionTypeSuspension, Status: domain.SanctionStatusActive,
			Reason: "Fraude", IssuedBy: admin, StartsAt: now.Add(-2 * time.Hour), EndsAt: ends, CreatedAt: now,
		}))
	}

	expired, err := f.store.Sanctions().ExpireDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, domain.SanctionStatusExpired, expired[0].Status)
	assert.Equal(t, "Marc Petit", expired[0].UserName)

	n, err := f.store.Sanctions().CountActiveRestricting(ctx, worker)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAdminLogs_AppendAndAggregate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	admin := f.user(t, domain.UserTypeAdmin, "Alice", "Admin")
	entity := uuid.New()

	for _, l := range []*domain.AdminLog{
		{Action: domain.LogActionLogin, EntityType: domain.EntitySession},
		{Action: domain.LogActionDisputeStatusChanged, EntityType: domain.EntityDispute, EntityID: &entity,
			Details: map[string]any{"from": "pending", "to": "investigating"}},
		{Action: domain.LogActionSanctionExpired, EntityType: domain.EntitySanction},
	} {
		l.ID = uuid.New()
		l.CreatedAt = time.Now().UTC()
		if l.Action != domain.LogActionSanctionExpired {
			l.AdminID = admin
		}
		require.NoError(t, f.store.AdminLogs().Create(ctx, l))
	}

	q, err := domain.ListQuery{}.Normalize(domain.AdminLogSort)
	require.NoError(t, err)

	logs, total, err := f.store.AdminLogs().List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 3)

	counts, err := f.store.AdminLogs().Aggregate(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, int64(1), counts.DistinctAdmins)
	assert.Equal(t, int64(1), counts.ByEntityType[domain.EntityDispute])

	q.Type = string(domain.EntityDispute)
	logs, total, err = f.store.AdminLogs().List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Alice Admin", logs[0].AdminName)
	assert.Equal(t, "investigating", logs[0].Details["to"])
}
