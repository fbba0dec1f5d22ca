package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	users       *UserRepo
	clients     *ClientRepo
	executants  *ExecutantRepo
	campaigns   *CampaignRepo
	executions  *ExecutionRepo
	disputes    *DisputeRepo
	sanctions   *SanctionRepo
	withdrawals *WithdrawalRepo
	adminLogs   *AdminLogRepo
	settings    *SettingRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		users:       NewUserRepo(pool),
		clients:     NewClientRepo(pool),
		executants:  NewExecutantRepo(pool),
		campaigns:   NewCampaignRepo(pool),
		executions:  NewExecutionRepo(pool),
		disputes:    NewDisputeRepo(pool),
		sanctions:   NewSanctionRepo(pool),
		withdrawals: NewWithdrawalRepo(pool),
		adminLogs:   NewAdminLogRepo(pool),
		settings:    NewSettingRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Stat exposes connection pool statistics for metrics.
func (s *Store) Stat() *pgxpool.Stat {
	return s.pool.Stat()
}

func (s *Store) Users() domain.UserRepository             { return s.users }
func (s *Store) Clients() domain.ClientRepository         { return s.clients }
func (s *Store) Executants() domain.ExecutantRepository   { return s.executants }
func (s *Store) Campaigns() domain.CampaignRepository     { return s.campaigns }
func (s *Store) Executions() domain.ExecutionRepository   { return s.executions }
func (s *Store) Disputes() domain.DisputeRepository       { return s.disputes }
func (s *Store) Sanctions() domain.SanctionRepository     { return s.sanctions }
func (s *Store) Withdrawals() domain.WithdrawalRepository { return s.withdrawals }
func (s *Store) AdminLogs() domain.AdminLogRepository     { return s.adminLogs }
func (s *Store) Settings() domain.SettingRepository       { return s.settings }
