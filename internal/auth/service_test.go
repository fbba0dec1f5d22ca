package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/auth"
	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/domain/domaintest"
)

// --- test constants ---

const (
	testJWTSecret = "test-secret-key-for-unit-tests-32b"
	testEmail     = "alice@example.com"
	testPassword  = "correct-horse-battery-staple"
)

var (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

func newTestService(repo domain.UserRepository) *auth.Service {
	return auth.NewService(repo, testJWTSecret, testAccessTTL, testRefreshTTL)
}

// createAdmin registers an admin through the service and returns the stored
// profile, password hash included.
func createAdmin(t *testing.T) *domain.UserProfile {
	t.Helper()

	var created *domain.UserProfile
	repo := &domaintest.UserRepo{
		CreateFunc: func(_ context.Context, u *domain.UserProfile) error {
			created = u
			return nil
		},
	}
	_, err := newTestService(repo).CreateAdmin(t.Context(), " Alice@Example.com ", testPassword, "Alice", "Martin")
	require.NoError(t, err)
	require.NotNil(t, created)
	return created
}

func repoWith(u *domain.UserProfile) *domaintest.UserRepo {
	return &domaintest.UserRepo{
		GetByEmailFunc: func(_ context.Context, email string) (*domain.UserProfile, error) {
			if email != u.Email {
				return nil, domain.ErrNotFound
			}
			return u, nil
		},
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.UserProfile, error) {
			if id != u.ID {
				return nil, domain.ErrNotFound
			}
			return u, nil
		},
	}
}

// --- CreateAdmin tests ---

func TestCreateAdmin(t *testing.T) {
	t.Parallel()

	t.Run("happy path stores a hashed admin", func(t *testing.T) {
		t.Parallel()

		u := createAdmin(t)
		assert.Equal(t, testEmail, u.Email)
		assert.Equal(t, domain.UserTypeAdmin, u.UserType)
		assert.Equal(t, domain.UserStatusActive, u.Status)
		assert.NotEqual(t, testPassword, u.PasswordHash)
		assert.Contains(t, u.PasswordHash, "$")
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()

		_, err := newTestService(&domaintest.UserRepo{}).CreateAdmin(t.Context(), testEmail, "short", "A", "B")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		_, err := newTestService(&domaintest.UserRepo{}).CreateAdmin(t.Context(), "alice", testPassword, "A", "B")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		repo := &domaintest.UserRepo{
			CreateFunc: func(context.Context, *domain.UserProfile) error { return domain.ErrConflict },
		}
		_, err := newTestService(repo).CreateAdmin(t.Context(), testEmail, testPassword, "A", "B")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

// --- Login tests ---

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy path returns two valid tokens", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		user, tokens, err := newTestService(repoWith(admin)).Login(t.Context(), "ALICE@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
		assert.Equal(t, int64(900), tokens.ExpiresIn)

		claims, err := auth.ValidateToken(testJWTSecret, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID.String(), claims.UserID)
		assert.Equal(t, "admin", claims.UserType)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		_, _, err := newTestService(repoWith(admin)).Login(t.Context(), testEmail, "wrong-password-entirely")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		_, _, err := newTestService(repoWith(admin)).Login(t.Context(), "bob@example.com", testPassword)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("non admin account", func(t *testing.T) {
		t.Parallel()

		u := *createAdmin(t)
		u.UserType = domain.UserTypeClient
		_, _, err := newTestService(repoWith(&u)).Login(t.Context(), testEmail, testPassword)
		assert.ErrorIs(t, err, auth.ErrNotAdmin)
	})

	t.Run("suspended admin", func(t *testing.T) {
		t.Parallel()

		u := *createAdmin(t)
		u.Status = domain.UserStatusSuspended
		_, _, err := newTestService(repoWith(&u)).Login(t.Context(), testEmail, testPassword)
		assert.ErrorIs(t, err, auth.ErrNotAdmin)
	})

	t.Run("storage failure is not a credential error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("db down")
		repo := &domaintest.UserRepo{
			GetByEmailFunc: func(context.Context, string) (*domain.UserProfile, error) { return nil, boom },
		}
		_, _, err := newTestService(repo).Login(t.Context(), testEmail, testPassword)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

// --- RefreshToken tests ---

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("issues a new access token", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		svc := newTestService(repoWith(admin))
		_, tokens, err := svc.Login(t.Context(), testEmail, testPassword)
		require.NoError(t, err)

		refreshed, err := svc.RefreshToken(t.Context(), tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Empty(t, refreshed.RefreshToken)

		claims, err := auth.ValidateToken(testJWTSecret, refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		access, err := auth.IssueAccessToken(testJWTSecret, admin.ID, domain.UserTypeAdmin, time.Minute)
		require.NoError(t, err)

		_, err = newTestService(repoWith(admin)).RefreshToken(t.Context(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("demoted admin cannot refresh", func(t *testing.T) {
		t.Parallel()

		u := *createAdmin(t)
		refresh, err := auth.IssueRefreshToken(testJWTSecret, u.ID, domain.UserTypeAdmin, time.Hour)
		require.NoError(t, err)
		u.Status = domain.UserStatusBanned

		_, err = newTestService(repoWith(&u)).RefreshToken(t.Context(), refresh)
		assert.ErrorIs(t, err, auth.ErrNotAdmin)
	})

	t.Run("deleted user", func(t *testing.T) {
		t.Parallel()

		admin := createAdmin(t)
		refresh, err := auth.IssueRefreshToken(testJWTSecret, uuid.New(), domain.UserTypeAdmin, time.Hour)
		require.NoError(t, err)

		_, err = newTestService(repoWith(admin)).RefreshToken(t.Context(), refresh)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

// --- Authenticate tests ---

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	admin := createAdmin(t)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		profile func() *domain.UserProfile
		wantErr error
	}{
		{
			name: "valid access token",
			token: func(t *testing.T) string {
				tok, err := auth.IssueAccessToken(testJWTSecret, admin.ID, domain.UserTypeAdmin, time.Minute)
				require.NoError(t, err)
				return tok
			},
			profile: func() *domain.UserProfile { return admin },
		},
		{
			name: "refresh token rejected",
			token: func(t *testing.T) string {
				tok, err := auth.IssueRefreshToken(testJWTSecret, admin.ID, domain.UserTypeAdmin, time.Minute)
				require.NoError(t, err)
				return tok
			},
			profile: func() *domain.UserProfile { return admin },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name: "banned since issue",
			token: func(t *testing.T) string {
				tok, err := auth.IssueAccessToken(testJWTSecret, admin.ID, domain.UserTypeAdmin, time.Minute)
				require.NoError(t, err)
				return tok
			},
			profile: func() *domain.UserProfile {
				u := *admin
				u.Status = domain.UserStatusBanned
				return &u
			},
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "garbage" },
			profile: func() *domain.UserProfile { return admin },
			wantErr: auth.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := newTestService(repoWith(tt.profile())).Authenticate(t.Context(), tt.token(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, admin.ID, u.ID)
		})
	}
}
