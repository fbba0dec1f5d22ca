package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/domain/domaintest"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// List contract
// ---------------------------------------------------------------------------

func TestDisputeService_List(t *testing.T) {
	t.Parallel()

	t.Run("items_and_stats_share_the_query", func(t *testing.T) {
		t.Parallel()

		var listQ, aggQ domain.ListQuery
		var listScope, aggScope domain.DisputeScope
		items := make([]*domain.Dispute, 20)
		for i := range items {
			items[i] = &domain.Dispute{ID: uuid.New(), Status: domain.DisputeStatusPending}
		}
		repo := &domaintest.DisputeRepo{
			ListFunc: func(_ context.Context, q domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error) {
				listQ, listScope = q, scope
				return items, 25, nil
			},
			AggregateFunc: func(_ context.Context, q domain.ListQuery, scope domain.DisputeScope) (*domain.DisputeCounts, error) {
				aggQ, aggScope = q, scope
				return &domain.DisputeCounts{Pending: 25}, nil
			},
		}
		svc := NewDisputeService(repo, &domaintest.UserRepo{})

		page, err := svc.List(context.Background(), domain.ListQuery{
			Status: "pending", Page: 1, Limit: 20, SortBy: "submittedDate", SortOrder: domain.SortDesc,
		}, domain.DisputeScopeAll)
		require.NoError(t, err)

		assert.Equal(t, listQ, aggQ)
		assert.Equal(t, listScope, aggScope)
		assert.Equal(t, "pending", listQ.Status)
		assert.Equal(t, int64(25), page.Total)
		assert.Len(t, page.Items, 20)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, int64(25), page.Stats.Total)
		assert.Equal(t, int64(25), page.Stats.Pending)
		require.NotNil(t, page.Stats.ResolutionRate)
		assert.InDelta(t, 0.0, *page.Stats.ResolutionRate, 1e-9)
	})

	t.Run("default_scope_is_all", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.DisputeRepo{
			ListFunc: func(_ context.Context, _ domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error) {
				assert.Equal(t, domain.DisputeScopeAll, scope)
				return nil, 0, nil
			},
			AggregateFunc: func(context.Context, domain.ListQuery, domain.DisputeScope) (*domain.DisputeCounts, error) {
				return &domain.DisputeCounts{}, nil
			},
		}
		page, err := NewDisputeService(repo, nil).List(context.Background(), domain.ListQuery{}, "")
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
		assert.Nil(t, page.Stats.ResolutionRate)
		assert.Nil(t, page.Stats.EscalationRate)
	})

	t.Run("unknown_scope", func(t *testing.T) {
		t.Parallel()

		_, err := NewDisputeService(&domaintest.DisputeRepo{}, nil).
			List(context.Background(), domain.ListQuery{}, "archived")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid_filter_never_reaches_storage", func(t *testing.T) {
		t.Parallel()

		_, err := NewDisputeService(&domaintest.DisputeRepo{}, nil).
			List(context.Background(), domain.ListQuery{Priority: "critical"}, domain.DisputeScopeAll)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "priority", verr.Field)
	})

	t.Run("backend_failure_propagates", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		repo := &domaintest.DisputeRepo{
			ListFunc: func(context.Context, domain.ListQuery, domain.DisputeScope) ([]*domain.Dispute, int64, error) {
				return nil, 0, boom
			},
		}
		_, err := NewDisputeService(repo, nil).List(context.Background(), domain.ListQuery{}, domain.DisputeScopeActive)
		assert.ErrorIs(t, err, boom)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("disputes", func(t *testing.T) {
		t.Parallel()
		s := disputeStats(10, &domain.DisputeCounts{Pending: 2, Investigating: 2, Resolved: 3, Escalated: 1, Closed: 2, AvgResolutionHours: ptr(12.345)})
		assert.InDelta(t, 50.0, *s.ResolutionRate, 1e-9)
		assert.InDelta(t, 10.0, *s.EscalationRate, 1e-9)
		assert.InDelta(t, 12.3, *s.AvgResolutionHours, 1e-9)
	})

	t.Run("executants_ignore_pending", func(t *testing.T) {
		t.Parallel()
		s := executantStats(4, &domain.ExecutantCounts{Active: 4, Approved: 2, Rejected: 1})
		assert.InDelta(t, 66.7, *s.SuccessRate, 1e-9)
		assert.Nil(t, s.AvgRating)

		s = executantStats(4, &domain.ExecutantCounts{Active: 4})
		assert.Nil(t, s.SuccessRate)
	})

	t.Run("withdrawals", func(t *testing.T) {
		t.Parallel()
		s := withdrawalStats(6, &domain.WithdrawalCounts{Pending: 2, Completed: 3, Rejected: 1})
		assert.InDelta(t, 75.0, *s.SuccessRate, 1e-9)
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()
		s := historyStats(3, &domain.HistoryCounts{Approved: 1, Rejected: 2})
		assert.InDelta(t, 33.3, *s.ApprovalRate, 1e-9)
	})

	t.Run("campaigns", func(t *testing.T) {
		t.Parallel()
		s := campaignStats(0, &domain.CampaignCounts{})
		assert.Nil(t, s.CompletionRate)
		s = campaignStats(8, &domain.CampaignCounts{Completed: 2})
		assert.InDelta(t, 25.0, *s.CompletionRate, 1e-9)
	})

	t.Run("clients", func(t *testing.T) {
		t.Parallel()
		s := clientStats(3, &domain.ClientCounts{SpentTotal: 1000})
		assert.InDelta(t, 333.3, *s.AvgSpent, 1e-9)
		assert.Nil(t, clientStats(0, &domain.ClientCounts{}).AvgSpent)
	})

	t.Run("sanctions", func(t *testing.T) {
		t.Parallel()
		s := sanctionStats(4, &domain.SanctionCounts{Revoked: 1})
		assert.InDelta(t, 25.0, *s.RevocationRate, 1e-9)
	})

	t.Run("admin_logs_never_nil_map", func(t *testing.T) {
		t.Parallel()
		s := adminLogStats(0, &domain.AdminLogCounts{})
		assert.NotNil(t, s.ByEntityType)
	})
}

// ---------------------------------------------------------------------------
// Disputes
// ---------------------------------------------------------------------------

func TestDisputeService_Transition(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name       string
		from       domain.DisputeStatus
		to         domain.DisputeStatus
		resolution string
		wantErr    error
	}{
		{"start_investigation", domain.DisputeStatusPending, domain.DisputeStatusInvestigating, "", nil},
		{"resolve", domain.DisputeStatusInvestigating, domain.DisputeStatusResolved, "refund issued", nil},
		{"resolve_without_resolution", domain.DisputeStatusInvestigating, domain.DisputeStatusResolved, "  ", domain.ErrValidation},
		{"escalate", domain.DisputeStatusInvestigating, domain.DisputeStatusEscalated, "", nil},
		{"close_escalated", domain.DisputeStatusEscalated, domain.DisputeStatusClosed, "", nil},
		{"skip_investigation", domain.DisputeStatusPending, domain.DisputeStatusResolved, "done", domain.ErrInvalidTransition},
		{"reopen_closed", domain.DisputeStatusClosed, domain.DisputeStatusPending, "", domain.ErrInvalidTransition},
		{"unknown_status", domain.DisputeStatusPending, domain.DisputeStatus("foo"), "", domain.ErrValidation},
		{"empty_status", domain.DisputeStatusPending, domain.DisputeStatus(""), "", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var updated bool
			repo := &domaintest.DisputeRepo{
				GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Dispute, error) {
					return &domain.Dispute{ID: id, Status: tt.from}, nil
				},
				UpdateStatusFunc: func(_ context.Context, gotID uuid.UUID, status domain.DisputeStatus, resolution string) error {
					updated = true
					assert.Equal(t, id, gotID)
					assert.Equal(t, tt.to, status)
					assert.Equal(t, strings.TrimSpace(tt.resolution), resolution)
					return nil
				},
			}

			before, err := NewDisputeService(repo, nil).Transition(context.Background(), id, tt.to, tt.resolution)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, updated)
				return
			}
			require.NoError(t, err)
			assert.True(t, updated)
			assert.Equal(t, tt.from, before.Status)
		})
	}

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.DisputeRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Dispute, error) {
				return nil, domain.ErrNotFound
			},
		}
		_, err := NewDisputeService(repo, nil).Transition(context.Background(), id, domain.DisputeStatusInvestigating, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown_status_skips_lookup", func(t *testing.T) {
		t.Parallel()

		_, err := NewDisputeService(&domaintest.DisputeRepo{}, nil).Transition(context.Background(), id, "foo", "")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})
}

func TestDisputeService_Assign(t *testing.T) {
	t.Parallel()

	disputeID := uuid.New()
	adminID := uuid.New()

	t.Run("assigns_admin", func(t *testing.T) {
		t.Parallel()

		var assigned *uuid.UUID
		users := &domaintest.UserRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, UserType: domain.UserTypeAdmin}, nil
			},
		}
		repo := &domaintest.DisputeRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Dispute, error) {
				return &domain.Dispute{ID: disputeID, Status: domain.DisputeStatusPending}, nil
			},
			AssignFunc: func(_ context.Context, _ uuid.UUID, a *uuid.UUID) error {
				assigned = a
				return nil
			},
		}
		_, err := NewDisputeService(repo, users).Assign(context.Background(), disputeID, &adminID)
		require.NoError(t, err)
		require.NotNil(t, assigned)
		assert.Equal(t, adminID, *assigned)
	})

	t.Run("rejects_non_admin", func(t *testing.T) {
		t.Parallel()

		users := &domaintest.UserRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, UserType: domain.UserTypeClient}, nil
			},
		}
		_, err := NewDisputeService(&domaintest.DisputeRepo{}, users).Assign(context.Background(), disputeID, &adminID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("closed_dispute", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.DisputeRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Dispute, error) {
				return &domain.Dispute{ID: disputeID, Status: domain.DisputeStatusClosed}, nil
			},
		}
		_, err := NewDisputeService(repo, nil).Assign(context.Background(), disputeID, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

// ---------------------------------------------------------------------------
// Sanctions
// ---------------------------------------------------------------------------

func TestSanctionService_Apply(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	adminID := uuid.New()
	nextWeek := fixedNow.Add(7 * 24 * time.Hour)

	newUsers := func(status domain.UserStatus, updated *domain.UserStatus) *domaintest.UserRepo {
		return &domaintest.UserRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, FirstName: "Awa", LastName: "Diallo", UserType: domain.UserTypeExecutant, Status: status}, nil
			},
			UpdateStatusFunc: func(_ context.Context, _ uuid.UUID, s domain.UserStatus) error {
				*updated = s
				return nil
			},
		}
	}

	tests := []struct {
		name       string
		current    domain.UserStatus
		in         ApplySanctionInput
		wantErr    error
		wantChange *StatusChange
	}{
		{
			name:    "warning_keeps_account_active",
			current: domain.UserStatusActive,
			in:      ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeWarning, Reason: "late delivery", IssuedBy: adminID},
		},
		{
			name:       "suspension_restricts",
			current:    domain.UserStatusActive,
			in:         ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeSuspension, Reason: "spam", EndsAt: &nextWeek, IssuedBy: adminID},
			wantChange: &StatusChange{UserID: userID, From: domain.UserStatusActive, To: domain.UserStatusSuspended},
		},
		{
			name:    "suspension_on_banned_stays_banned",
			current: domain.UserStatusBanned,
			in:      ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeSuspension, Reason: "spam", EndsAt: &nextWeek, IssuedBy: adminID},
		},
		{
			name:       "ban_is_permanent",
			current:    domain.UserStatusSuspended,
			in:         ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeBan, Reason: "fraud", IssuedBy: adminID},
			wantChange: &StatusChange{UserID: userID, From: domain.UserStatusSuspended, To: domain.UserStatusBanned},
		},
		{
			name:    "suspension_needs_end",
			in:      ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeSuspension, Reason: "spam"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "end_in_past",
			in:      ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeWarning, Reason: "spam", EndsAt: ptr(fixedNow.Add(-time.Hour))},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing_reason",
			in:      ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeBan},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown_type",
			in:      ApplySanctionInput{UserID: userID, Type: "fine", Reason: "x"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var updated domain.UserStatus
			var created *domain.Sanction
			users := &domaintest.UserRepo{}
			repo := &domaintest.SanctionRepo{}
			if tt.wantErr == nil {
				users = newUsers(tt.current, &updated)
				repo.CreateFunc = func(_ context.Context, s *domain.Sanction) error {
					created = s
					return nil
				}
			}
			svc := NewSanctionService(repo, users)
			svc.now = fixedClock

			sn, change, err := svc.Apply(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, created, sn)
			assert.Equal(t, domain.SanctionStatusActive, sn.Status)
			assert.Equal(t, "Awa Diallo", sn.UserName)
			assert.Equal(t, fixedNow, sn.StartsAt)
			assert.Equal(t, tt.wantChange, change)
			if tt.wantChange == nil {
				assert.Empty(t, updated)
			} else {
				assert.Equal(t, tt.wantChange.To, updated)
			}
		})
	}

	t.Run("admin_target", func(t *testing.T) {
		t.Parallel()

		users := &domaintest.UserRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, UserType: domain.UserTypeAdmin}, nil
			},
		}
		svc := NewSanctionService(&domaintest.SanctionRepo{}, users)
		_, _, err := svc.Apply(context.Background(), ApplySanctionInput{UserID: userID, Type: domain.SanctionTypeBan, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSanctionService_Revoke(t *testing.T) {
	t.Parallel()

	sanctionID := uuid.New()
	userID := uuid.New()
	adminID := uuid.New()

	t.Run("last_restriction_reactivates", func(t *testing.T) {
		t.Parallel()

		var updated domain.UserStatus
		repo := &domaintest.SanctionRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Sanction, error) {
				return &domain.Sanction{ID: sanctionID, UserID: userID, Type: domain.SanctionTypeSuspension, Status: domain.SanctionStatusActive}, nil
			},
			RevokeFunc: func(_ context.Context, id, by uuid.UUID, reason string, at time.Time) error {
				assert.Equal(t, sanctionID, id)
				assert.Equal(t, adminID, by)
				assert.Equal(t, "appeal accepted", reason)
				assert.Equal(t, fixedNow, at)
				return nil
			},
			CountActiveRestrictingFunc: func(context.Context, uuid.UUID) (int64, error) { return 0, nil },
		}
		users := &domaintest.UserRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, Status: domain.UserStatusSuspended}, nil
			},
			UpdateStatusFunc: func(_ context.Context, _ uuid.UUID, s domain.UserStatus) error {
				updated = s
				return nil
			},
		}
		svc := NewSanctionService(repo, users)
		svc.now = fixedClock

		sn, change, err := svc.Revoke(context.Background(), sanctionID, adminID, " appeal accepted ")
		require.NoError(t, err)
		assert.Equal(t, domain.SanctionStatusRevoked, sn.Status)
		assert.Equal(t, domain.UserStatusActive, updated)
		assert.Equal(t, &StatusChange{UserID: userID, From: domain.UserStatusSuspended, To: domain.UserStatusActive}, change)
	})

	t.Run("other_restriction_remains", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.SanctionRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Sanction, error) {
				return &domain.Sanction{ID: sanctionID, UserID: userID, Type: domain.SanctionTypeBan, Status: domain.SanctionStatusActive}, nil
			},
			RevokeFunc:                 func(context.Context, uuid.UUID, uuid.UUID, string, time.Time) error { return nil },
			CountActiveRestrictingFunc: func(context.Context, uuid.UUID) (int64, error) { return 1, nil },
		}
		_, change, err := NewSanctionService(repo, &domaintest.UserRepo{}).Revoke(context.Background(), sanctionID, adminID, "duplicate")
		require.NoError(t, err)
		assert.Nil(t, change)
	})

	t.Run("already_revoked", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.SanctionRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Sanction, error) {
				return &domain.Sanction{ID: sanctionID, Status: domain.SanctionStatusRevoked}, nil
			},
		}
		_, _, err := NewSanctionService(repo, nil).Revoke(context.Background(), sanctionID, adminID, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("reason_required", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewSanctionService(&domaintest.SanctionRepo{}, nil).Revoke(context.Background(), sanctionID, adminID, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSanctionService_ExpireDue(t *testing.T) {
	t.Parallel()

	warned := uuid.New()
	suspended := uuid.New()
	var updated []uuid.UUID

	repo := &domaintest.SanctionRepo{
		ExpireDueFunc: func(_ context.Context, now time.Time) ([]*domain.Sanction, error) {
			assert.Equal(t, fixedNow, now)
			return []*domain.Sanction{
				{ID: uuid.New(), UserID: warned, Type: domain.SanctionTypeWarning, Status: domain.SanctionStatusExpired},
				{ID: uuid.New(), UserID: suspended, Type: domain.SanctionTypeSuspension, Status: domain.SanctionStatusExpired},
			}, nil
		},
		CountActiveRestrictingFunc: func(context.Context, uuid.UUID) (int64, error) { return 0, nil },
	}
	users := &domaintest.UserRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
			return &domain.UserProfile{ID: id, Status: domain.UserStatusSuspended}, nil
		},
		UpdateStatusFunc: func(_ context.Context, id uuid.UUID, _ domain.UserStatus) error {
			updated = append(updated, id)
			return nil
		},
	}
	svc := NewSanctionService(repo, users)
	svc.now = fixedClock

	out, err := svc.ExpireDue(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].Change)
	require.NotNil(t, out[1].Change)
	assert.Equal(t, domain.UserStatusActive, out[1].Change.To)
	assert.Equal(t, []uuid.UUID{suspended}, updated)
}

// ---------------------------------------------------------------------------
// Validations
// ---------------------------------------------------------------------------

func TestValidationService_Decisions(t *testing.T) {
	t.Parallel()

	execID := uuid.New()
	adminID := uuid.New()

	pending := func() *domaintest.ExecutionRepo {
		return &domaintest.ExecutionRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Execution, error) {
				return &domain.Execution{ID: id, Status: domain.ExecutionStatusPending, Reward: 1500}, nil
			},
		}
	}

	t.Run("approve", func(t *testing.T) {
		t.Parallel()

		repo := pending()
		repo.DecideFunc = func(_ context.Context, _ uuid.UUID, d domain.Decision) error {
			assert.Equal(t, domain.ExecutionStatusApproved, d.Status)
			assert.Equal(t, adminID, d.ValidatedBy)
			assert.Equal(t, fixedNow, d.ValidatedAt)
			require.NotNil(t, d.Rating)
			assert.Equal(t, 4, *d.Rating)
			return nil
		}
		svc := NewValidationService(repo)
		svc.now = fixedClock

		e, err := svc.Approve(context.Background(), execID, adminID, ptr(4))
		require.NoError(t, err)
		assert.Equal(t, domain.ExecutionStatusApproved, e.Status)
		assert.Equal(t, int64(1500), e.Reward)
	})

	t.Run("approve_rating_out_of_range", func(t *testing.T) {
		t.Parallel()

		_, err := NewValidationService(&domaintest.ExecutionRepo{}).Approve(context.Background(), execID, adminID, ptr(6))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("reject_requires_reason_before_storage", func(t *testing.T) {
		t.Parallel()

		_, err := NewValidationService(&domaintest.ExecutionRepo{}).Reject(context.Background(), execID, adminID, " ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()

		repo := pending()
		repo.DecideFunc = func(_ context.Context, _ uuid.UUID, d domain.Decision) error {
			assert.Equal(t, domain.ExecutionStatusRejected, d.Status)
			assert.Equal(t, "blurry screenshot", d.Reason)
			return nil
		}
		e, err := NewValidationService(repo).Reject(context.Background(), execID, adminID, "blurry screenshot")
		require.NoError(t, err)
		assert.Equal(t, "blurry screenshot", e.RejectionReason)
	})

	t.Run("already_decided", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.ExecutionRepo{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Execution, error) {
				return &domain.Execution{ID: id, Status: domain.ExecutionStatusApproved}, nil
			},
		}
		_, err := NewValidationService(repo).Approve(context.Background(), execID, adminID, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("lost_race", func(t *testing.T) {
		t.Parallel()

		repo := pending()
		repo.DecideFunc = func(context.Context, uuid.UUID, domain.Decision) error {
			return domain.ErrInvalidTransition
		}
		_, err := NewValidationService(repo).Approve(context.Background(), execID, adminID, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestValidationService_Queue(t *testing.T) {
	t.Parallel()

	repo := &domaintest.ExecutionRepo{
		ListPendingFunc: func(_ context.Context, q domain.ListQuery) ([]*domain.Execution, int64, error) {
			assert.Equal(t, "submittedAt", q.SortBy)
			assert.Equal(t, domain.SortAsc, q.SortOrder)
			return []*domain.Execution{{ID: uuid.New()}}, 1, nil
		},
		AggregatePendingFunc: func(context.Context, domain.ListQuery) (*domain.QueueCounts, error) {
			return &domain.QueueCounts{Pending: 1, RewardTotal: 700, AvgWaitHours: ptr(5.06)}, nil
		},
	}

	page, err := NewValidationService(repo).Queue(context.Background(), domain.ListQuery{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Stats.Pending)
	assert.Equal(t, int64(700), page.Stats.TotalReward)
	assert.InDelta(t, 5.1, *page.Stats.AvgWaitHours, 1e-9)
}

// ---------------------------------------------------------------------------
// Withdrawals
// ---------------------------------------------------------------------------

func TestWithdrawalService_Process(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	adminID := uuid.New()

	withStatus := func(status domain.WithdrawalStatus, complete func(domain.WithdrawalOutcome)) *domaintest.WithdrawalRepo {
		return &domaintest.WithdrawalRepo{
			GetByIDFunc: func(_ context.Context, wid uuid.UUID) (*domain.Withdrawal, error) {
				return &domain.Withdrawal{ID: wid, Status: status, Amount: 5000}, nil
			},
			CompleteFunc: func(_ context.Context, _ uuid.UUID, o domain.WithdrawalOutcome) error {
				complete(o)
				return nil
			},
		}
	}

	t.Run("approve_with_reference", func(t *testing.T) {
		t.Parallel()

		var got domain.WithdrawalOutcome
		svc := NewWithdrawalService(withStatus(domain.WithdrawalStatusPending, func(o domain.WithdrawalOutcome) { got = o }))
		svc.now = fixedClock

		w, err := svc.Process(context.Background(), ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalApprove, TransactionRef: "SEPA-42", By: adminID})
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusCompleted, got.Status)
		assert.Equal(t, "SEPA-42", got.TransactionRef)
		assert.Equal(t, fixedNow, got.ProcessedAt)
		assert.Equal(t, domain.WithdrawalStatusCompleted, w.Status)
	})

	t.Run("approve_generates_reference", func(t *testing.T) {
		t.Parallel()

		var got domain.WithdrawalOutcome
		svc := NewWithdrawalService(withStatus(domain.WithdrawalStatusProcessing, func(o domain.WithdrawalOutcome) { got = o }))
		_, err := svc.Process(context.Background(), ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalApprove, By: adminID})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got.TransactionRef, "WD-"))
		assert.Len(t, got.TransactionRef, 15)
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()

		var got domain.WithdrawalOutcome
		svc := NewWithdrawalService(withStatus(domain.WithdrawalStatusPending, func(o domain.WithdrawalOutcome) { got = o }))
		w, err := svc.Process(context.Background(), ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalReject, Reason: "IBAN invalide", By: adminID})
		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusRejected, got.Status)
		assert.Equal(t, "IBAN invalide", w.RejectionReason)
	})

	tests := []struct {
		name    string
		in      ProcessWithdrawalInput
		status  domain.WithdrawalStatus
		wantErr error
	}{
		{"reject_without_reason", ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalReject}, "", domain.ErrValidation},
		{"unknown_action", ProcessWithdrawalInput{ID: id, Decision: "hold"}, "", domain.ErrValidation},
		{"already_completed", ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalApprove}, domain.WithdrawalStatusCompleted, domain.ErrInvalidTransition},
		{"already_rejected", ProcessWithdrawalInput{ID: id, Decision: domain.WithdrawalReject, Reason: "x"}, domain.WithdrawalStatusRejected, domain.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &domaintest.WithdrawalRepo{}
			if tt.status != "" {
				repo.GetByIDFunc = func(_ context.Context, wid uuid.UUID) (*domain.Withdrawal, error) {
					return &domain.Withdrawal{ID: wid, Status: tt.status}, nil
				}
			}
			_, err := NewWithdrawalService(repo).Process(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// Users & settings
// ---------------------------------------------------------------------------

func TestUserService_SetStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	profile := func(typ domain.UserType, status domain.UserStatus) *domaintest.UserRepo {
		return &domaintest.UserRepo{
			GetByIDFunc: func(context.Context, uuid.UUID) (*domain.UserProfile, error) {
				return &domain.UserProfile{ID: id, UserType: typ, Status: status}, nil
			},
			UpdateStatusFunc: func(context.Context, uuid.UUID, domain.UserStatus) error { return nil },
		}
	}

	change, err := NewUserService(profile(domain.UserTypeClient, domain.UserStatusActive)).
		SetStatus(context.Background(), id, domain.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, &StatusChange{UserID: id, From: domain.UserStatusActive, To: domain.UserStatusSuspended}, change)

	_, err = NewUserService(profile(domain.UserTypeClient, domain.UserStatusBanned)).
		SetStatus(context.Background(), id, domain.UserStatusBanned)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = NewUserService(profile(domain.UserTypeAdmin, domain.UserStatusActive)).
		SetStatus(context.Background(), id, domain.UserStatusBanned)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewUserService(&domaintest.UserRepo{}).SetStatus(context.Background(), id, "deleted")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSettingService_Update(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	repo := &domaintest.SettingRepo{
		UpdateFunc: func(_ context.Context, key, value string, by uuid.UUID) (string, error) {
			if key != "platform_fee_percent" {
				return "", domain.ErrNotFound
			}
			assert.Equal(t, "12", value)
			assert.Equal(t, adminID, by)
			return "10", nil
		},
	}
	svc := NewSettingService(repo)

	prev, err := svc.Update(context.Background(), "platform_fee_percent", " 12 ", adminID)
	require.NoError(t, err)
	assert.Equal(t, "10", prev)

	_, err = svc.Update(context.Background(), "unknown", "1", adminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(context.Background(), "platform_fee_percent", "", adminID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestDashboardService_Overview(t *testing.T) {
	t.Parallel()

	store := &domaintest.Store{
		CampaignRepo: &domaintest.CampaignRepo{
			ListFunc: func(context.Context, domain.ListQuery) ([]*domain.Campaign, int64, error) { return nil, 4, nil },
			AggregateFunc: func(context.Context, domain.ListQuery) (*domain.CampaignCounts, error) {
				return &domain.CampaignCounts{Completed: 1}, nil
			},
		},
		DisputeRepo: &domaintest.DisputeRepo{
			ListFunc: func(_ context.Context, q domain.ListQuery, scope domain.DisputeScope) ([]*domain.Dispute, int64, error) {
				assert.Equal(t, domain.DisputeScopeActive, scope)
				assert.Equal(t, "priority", q.SortBy)
				return []*domain.Dispute{{ID: uuid.New()}}, 1, nil
			},
			AggregateFunc: func(context.Context, domain.ListQuery, domain.DisputeScope) (*domain.DisputeCounts, error) {
				return &domain.DisputeCounts{Pending: 1}, nil
			},
		},
		ExecutionRepo: &domaintest.ExecutionRepo{
			ListPendingFunc: func(context.Context, domain.ListQuery) ([]*domain.Execution, int64, error) { return nil, 0, nil },
			AggregatePendingFunc: func(context.Context, domain.ListQuery) (*domain.QueueCounts, error) {
				return &domain.QueueCounts{}, nil
			},
		},
		WithdrawalRepo: &domaintest.WithdrawalRepo{
			ListFunc: func(context.Context, domain.ListQuery) ([]*domain.Withdrawal, int64, error) { return nil, 2, nil },
			AggregateFunc: func(context.Context, domain.ListQuery) (*domain.WithdrawalCounts, error) {
				return &domain.WithdrawalCounts{Pending: 2, PendingAmount: 9000}, nil
			},
		},
		ClientRepo: &domaintest.ClientRepo{
			ListFunc: func(context.Context, domain.ListQuery) ([]*domain.Client, int64, error) { return nil, 3, nil },
			AggregateFunc: func(context.Context, domain.ListQuery) (*domain.ClientCounts, error) {
				return &domain.ClientCounts{Active: 3}, nil
			},
		},
		ExecutantRepo: &domaintest.ExecutantRepo{
			ListFunc: func(context.Context, domain.ListQuery) ([]*domain.Executant, int64, error) { return nil, 5, nil },
			AggregateFunc: func(context.Context, domain.ListQuery) (*domain.ExecutantCounts, error) {
				return &domain.ExecutantCounts{Active: 5}, nil
			},
		},
	}

	svc := NewDashboardService(
		NewCampaignService(store.Campaigns()),
		NewDisputeService(store.Disputes(), store.Users()),
		NewValidationService(store.Executions()),
		NewWithdrawalService(store.Withdrawals()),
		NewClientService(store.Clients(), store.Campaigns()),
		NewExecutantService(store.Executants()),
	)

	out, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.Campaigns.Total)
	assert.InDelta(t, 25.0, *out.Campaigns.CompletionRate, 1e-9)
	assert.Len(t, out.UrgentDisputes, 1)
	assert.NotNil(t, out.OldestPending)
	assert.Equal(t, int64(9000), out.Withdrawals.PendingAmount)
	assert.Equal(t, int64(3), out.Clients.Total)
	assert.Equal(t, int64(5), out.Executants.Active)
}

func TestClientService_Get(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	clients := &domaintest.ClientRepo{
		GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Client, error) {
			return &domain.Client{UserProfile: domain.UserProfile{ID: id}, CompanyName: "Acme"}, nil
		},
	}
	campaigns := &domaintest.CampaignRepo{
		ListByClientFunc: func(_ context.Context, clientID uuid.UUID, limit int) ([]*domain.Campaign, error) {
			assert.Equal(t, id, clientID)
			assert.Equal(t, recentCampaigns, limit)
			return nil, nil
		},
	}

	d, err := NewClientService(clients, campaigns).Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", d.CompanyName)
	assert.NotNil(t, d.RecentCampaigns)
}
