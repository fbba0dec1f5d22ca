// Package domaintest provides func-field fakes of the domain repositories for
// tests. A method whose func is not set panics, so a test fails loudly when
// code reaches storage it was not expected to touch.
package domaintest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

func unexpected(method string) {
	panic("domaintest: unexpected call to " + method)
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store bundles repository fakes. Nil repositories are replaced by empty
// fakes, so any call through them panics.
type Store struct {
	UserRepo       *UserRepo
	ClientRepo     *ClientRepo
	ExecutantRepo  *ExecutantRepo
	CampaignRepo   *CampaignRepo
	ExecutionRepo  *ExecutionRepo
	DisputeRepo    *DisputeRepo
	SanctionRepo   *SanctionRepo
	WithdrawalRepo *WithdrawalRepo
	AdminLogRepo   *AdminLogRepo
	SettingRepo    *SettingRepo
}

func orNew[T any](p *T) *T {
	if p == nil {
		return new(T)
	}
	return p
}

func (s *Store) Users() domain.UserRepository             { return orNew(s.UserRepo) }
func (s *Store) Clients() domain.ClientRepository         { return orNew(s.ClientRepo) }
func (s *Store) Executants() domain.ExecutantRepository   { return orNew(s.ExecutantRepo) }
func (s *Store) Campaigns() domain.CampaignRepository     { return orNew(s.CampaignRepo) }
func (s *Store) Executions() domain.ExecutionRepository   { return orNew(s.ExecutionRepo) }
func (s *Store) Disputes() domain.DisputeRepository       { return orNew(s.DisputeRepo) }
func (s *Store) Sanctions() domain.SanctionRepository     { return orNew(s.SanctionRepo) }
func (s *Store) Withdrawals() domain.WithdrawalRepository { return orNew(s.WithdrawalRepo) }
func (s *Store) Settings() domain.SettingRepository       { return orNew(s.SettingRepo) }

// AdminLogs returns the configured fake, creating a recording one on first use
// so tests can inspect audit records afterwards.
func (s *Store) AdminLogs() domain.AdminLogRepository {
	if s.AdminLogRepo == nil {
		s.AdminLogRepo = &AdminLogRepo{}
	}
	return s.AdminLogRepo
}

// ---------------------------------------------------------------------------
// UserRepository
// ---------------------------------------------------------------------------

type UserRepo struct {
	CreateFunc       func(ctx context.Context, u *domain.UserProfile) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	GetByEmailFunc   func(ctx context.Context, email string) (*domain.UserProfile, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.UserStatus) error
}

func (m *UserRepo) Create(ctx context.Context, u *domain.UserProfile) error {
	if m.CreateFunc == nil {
		unexpected("UserRepo.Create")
	}
	return m.CreateFunc(ctx, u)
}

func (m *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	if m.GetByIDFunc == nil {
		unexpected("UserRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	if m.GetByEmailFunc == nil {
		unexpected("UserRepo.GetByEmail")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *UserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	if m.UpdateStatusFunc == nil {
		unexpected("UserRepo.UpdateStatus")
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

// ---------------------------------------------------------------------------
// ClientRepository / ExecutantRepository
// ---------------------------------------------------------------------------

type ClientRepo struct {
	ListFunc      func(ctx context.Context, q domain.ListQuery) ([]*domain.Client, int64, error)
	AggregateFunc func(ctx context.Context, q domain.ListQuery) (*domain.ClientCounts, error)
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

func (m *ClientRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Client, int64, error) {
	if m.ListFunc == nil {
		unexpected("ClientRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *ClientRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.ClientCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("ClientRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

func (m *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if m.GetByIDFunc == nil {
		unexpected("ClientRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

type ExecutantRepo struct {
	ListFunc      func(ctx context.Context, q domain.ListQuery) ([]*domain.Executant, int64, error)
	AggregateFunc func(ctx context.Context, q domain.ListQuery) (*domain.ExecutantCounts, error)
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Executant, error)
}

func (m *ExecutantRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Executant, int64, error) {
	if m.ListFunc == nil {
		unexpected("ExecutantRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *ExecutantRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.ExecutantCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("ExecutantRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

func (m *ExecutantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Executant, error) {
	if m.GetByIDFunc == nil {
		unexpected("ExecutantRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// CampaignRepository
// ---------------------------------------------------------------------------

type CampaignRepo struct {
	ListFunc         func(ctx context.Context, q domain.ListQuery) ([]*domain.Campaign, int64, error)
	AggregateFunc    func(ctx context.Context, q domain.ListQuery) (*domain.CampaignCounts, error)
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ListByClientFunc func(ctx context.Context, clientID uuid.UUID, limit int) ([]*domain.Campaign, error)
}

func (m *CampaignRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Campaign, int64, error) {
	if m.ListFunc == nil {
		unexpected("CampaignRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *CampaignRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.CampaignCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("CampaignRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

func (m *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	if m.GetByIDFunc == nil {
		unexpected("CampaignRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *CampaignRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]*domain.Campaign, error) {
	if m.ListByClientFunc == nil {
		unexpected("CampaignRepo.ListByClient")
	}
	return m.ListByClientFunc(ctx, clientID, limit)
}

// ---------------------------------------------------------------------------
// ExecutionRepository
// ---------------------------------------------------------------------------

type ExecutionRepo struct {
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Execution, error)
	ListPendingFunc        func(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error)
	AggregatePendingFunc   func(ctx context.Context, q domain.ListQuery) (*domain.QueueCounts, error)
	ListValidatedFunc      func(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error)
	AggregateValidatedFunc func(ctx context.Context, q domain.ListQuery) (*domain.HistoryCounts, error)
	DecideFunc             func(ctx context.Context, id uuid.UUID, d domain.Decision) error
}

func (m *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Execution, error) {
	if m.GetByIDFunc == nil {
		unexpected("ExecutionRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *ExecutionRepo) ListPending(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error) {
	if m.ListPendingFunc == nil {
		unexpected("ExecutionRepo.ListPending")
	}
	return m.ListPendingFunc(ctx, q)
}

func (m *ExecutionRepo) AggregatePending(ctx context.Context, q domain.ListQuery) (*domain.QueueCounts, error) {
	if m.AggregatePendingFunc == nil {
		unexpected("ExecutionRepo.AggregatePending")
	}
	return m.AggregatePendingFunc(ctx, q)
}

func (m *ExecutionRepo) ListValidated(ctx context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error) {
	if m.ListValidatedFunc == nil {
		unexpected("ExecutionRepo.ListValidated")
	}
	return m.ListValidatedFunc(ctx, q)
}

func (m *ExecutionRepo) AggregateValidated(ctx context.Context, q domain.ListQuery) (*domain.HistoryCounts, error) {
	if m.AggregateValidatedFunc == nil {
		unexpected("ExecutionRepo.AggregateValidated")
	}
	return m.AggregateValidatedFunc(ctx, q)
}

func (m *ExecutionRepo) Decide(ctx context.Context, id uuid.UUID, d domain.Decision) error {
	if m.DecideFunc == nil {
		unexpected("ExecutionRepo.Decide")
	}
	return m.DecideFunc(ctx, id, d)
}

// ---------------------------------------------------------------------------
// DisputeRepository
// ---------------------------------------------------------------------------

type DisputeRepo struct {
	ListFunc         func(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error)
	AggregateFunc    func(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) (*domain.DisputeCounts, error)
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Dispute, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string) error
	AssignFunc       func(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) error
}

func (m *DisputeRepo) List(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error) {
	if m.ListFunc == nil {
		unexpected("DisputeRepo.List")
	}
	return m.ListFunc(ctx, q, scope)
}

func (m *DisputeRepo) Aggregate(ctx context.Context, q domain.ListQuery, scope domain.DisputeScope) (*domain.DisputeCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("DisputeRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q, scope)
}

func (m *DisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	if m.GetByIDFunc == nil {
		unexpected("DisputeRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *DisputeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolution string) error {
	if m.UpdateStatusFunc == nil {
		unexpected("DisputeRepo.UpdateStatus")
	}
	return m.UpdateStatusFunc(ctx, id, status, resolution)
}

func (m *DisputeRepo) Assign(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) error {
	if m.AssignFunc == nil {
		unexpected("DisputeRepo.Assign")
	}
	return m.AssignFunc(ctx, id, adminID)
}

// ---------------------------------------------------------------------------
// SanctionRepository
// ---------------------------------------------------------------------------

type SanctionRepo struct {
	CreateFunc                 func(ctx context.Context, s *domain.Sanction) error
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Sanction, error)
	ListFunc                   func(ctx context.Context, q domain.ListQuery) ([]*domain.Sanction, int64, error)
	AggregateFunc              func(ctx context.Context, q domain.ListQuery) (*domain.SanctionCounts, error)
	RevokeFunc                 func(ctx context.Context, id, revokedBy uuid.UUID, reason string, at time.Time) error
	ExpireDueFunc              func(ctx context.Context, now time.Time) ([]*domain.Sanction, error)
	CountActiveRestrictingFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *SanctionRepo) Create(ctx context.Context, s *domain.Sanction) error {
	if m.CreateFunc == nil {
		unexpected("SanctionRepo.Create")
	}
	return m.CreateFunc(ctx, s)
}

func (m *SanctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sanction, error) {
	if m.GetByIDFunc == nil {
		unexpected("SanctionRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *SanctionRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Sanction, int64, error) {
	if m.ListFunc == nil {
		unexpected("SanctionRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *SanctionRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.SanctionCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("SanctionRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

func (m *SanctionRepo) Revoke(ctx context.Context, id, revokedBy uuid.UUID, reason string, at time.Time) error {
	if m.RevokeFunc == nil {
		unexpected("SanctionRepo.Revoke")
	}
	return m.RevokeFunc(ctx, id, revokedBy, reason, at)
}

func (m *SanctionRepo) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Sanction, error) {
	if m.ExpireDueFunc == nil {
		unexpected("SanctionRepo.ExpireDue")
	}
	return m.ExpireDueFunc(ctx, now)
}

func (m *SanctionRepo) CountActiveRestricting(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountActiveRestrictingFunc == nil {
		unexpected("SanctionRepo.CountActiveRestricting")
	}
	return m.CountActiveRestrictingFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// WithdrawalRepository
// ---------------------------------------------------------------------------

type WithdrawalRepo struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	ListFunc      func(ctx context.Context, q domain.ListQuery) ([]*domain.Withdrawal, int64, error)
	AggregateFunc func(ctx context.Context, q domain.ListQuery) (*domain.WithdrawalCounts, error)
	CompleteFunc  func(ctx context.Context, id uuid.UUID, o domain.WithdrawalOutcome) error
}

func (m *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	if m.GetByIDFunc == nil {
		unexpected("WithdrawalRepo.GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *WithdrawalRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.Withdrawal, int64, error) {
	if m.ListFunc == nil {
		unexpected("WithdrawalRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *WithdrawalRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.WithdrawalCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("WithdrawalRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

func (m *WithdrawalRepo) Complete(ctx context.Context, id uuid.UUID, o domain.WithdrawalOutcome) error {
	if m.CompleteFunc == nil {
		unexpected("WithdrawalRepo.Complete")
	}
	return m.CompleteFunc(ctx, id, o)
}

// ---------------------------------------------------------------------------
// AdminLogRepository
// ---------------------------------------------------------------------------

// AdminLogRepo records created entries. CreateFunc, when set, decides the
// result of Create after the entry has been recorded.
type AdminLogRepo struct {
	CreateFunc    func(ctx context.Context, l *domain.AdminLog) error
	ListFunc      func(ctx context.Context, q domain.ListQuery) ([]*domain.AdminLog, int64, error)
	AggregateFunc func(ctx context.Context, q domain.ListQuery) (*domain.AdminLogCounts, error)

	mu      sync.Mutex
	created []*domain.AdminLog
}

func (m *AdminLogRepo) Create(ctx context.Context, l *domain.AdminLog) error {
	m.mu.Lock()
	m.created = append(m.created, l)
	m.mu.Unlock()
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, l)
}

func (m *AdminLogRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.AdminLog, int64, error) {
	if m.ListFunc == nil {
		unexpected("AdminLogRepo.List")
	}
	return m.ListFunc(ctx, q)
}

func (m *AdminLogRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.AdminLogCounts, error) {
	if m.AggregateFunc == nil {
		unexpected("AdminLogRepo.Aggregate")
	}
	return m.AggregateFunc(ctx, q)
}

// Created returns a snapshot of every entry passed to Create.
func (m *AdminLogRepo) Created() []*domain.AdminLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AdminLog(nil), m.created...)
}

// ---------------------------------------------------------------------------
// SettingRepository
// ---------------------------------------------------------------------------

type SettingRepo struct {
	ListFunc   func(ctx context.Context) ([]*domain.Setting, error)
	GetFunc    func(ctx context.Context, key string) (*domain.Setting, error)
	UpdateFunc func(ctx context.Context, key, value string, by uuid.UUID) (string, error)
}

func (m *SettingRepo) List(ctx context.Context) ([]*domain.Setting, error) {
	if m.ListFunc == nil {
		unexpected("SettingRepo.List")
	}
	return m.ListFunc(ctx)
}

func (m *SettingRepo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	if m.GetFunc == nil {
		unexpected("SettingRepo.Get")
	}
	return m.GetFunc(ctx, key)
}

func (m *SettingRepo) Update(ctx context.Context, key, value string, by uuid.UUID) (string, error) {
	if m.UpdateFunc == nil {
		unexpected("SettingRepo.Update")
	}
	return m.UpdateFunc(ctx, key, value, by)
}
