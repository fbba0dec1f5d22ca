package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/gosuda/backoffice/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotAdmin           = errors.New("auth: account is not an active admin")
)

// MinPasswordLength is enforced when an admin account is created.
const MinPasswordLength = 12

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// dummyHash is verified against when the email is unknown so that both
// failure paths cost one argon2 derivation.
var dummyHash = hex.EncodeToString(make([]byte, argonSaltLen)) + "$" + hex.EncodeToString(make([]byte, argonKeyLen))

// Tokens is the pair returned by a successful login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until the access token expires
}

// Service provides authentication for back-office admins.
type Service struct {
	userRepo   domain.UserRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a new auth service.
func NewService(userRepo domain.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// CreateAdmin registers a new admin account with an argon2id password hash.
func (s *Service) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("auth.CreateAdmin: %w", domain.Invalid("email", "must be an email address"))
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("auth.CreateAdmin: %w", domain.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength)))
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.CreateAdmin: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.UserProfile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		UserType:     domain.UserTypeAdmin,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.CreateAdmin: %w", err)
	}

	return user, nil
}

// Login validates email/password and returns access + refresh JWT tokens.
// Only active admin accounts may log in.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.UserProfile, *Tokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		verifyPassword(password, dummyHash)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if user.UserType != domain.UserTypeAdmin || user.Status != domain.UserStatusActive {
		return nil, nil, fmt.Errorf("auth.Login: %w", ErrNotAdmin)
	}

	tokens, err := s.issue(user, true)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.Login: %w", err)
	}

	return user, tokens, nil
}

// RefreshToken validates a refresh token and issues a new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*Tokens, error) {
	userID, err := validateTyped(s.jwtSecret, refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}

	// Re-read the profile so a suspended or demoted admin cannot refresh.
	user, err := s.activeAdmin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}

	tokens, err := s.issue(user, false)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return tokens, nil
}

// Authenticate resolves an access token to the current profile of its owner.
// The profile is read on every call, so a status or role change applies at
// once. Non-admin profiles are returned as is for the caller to gate.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	userID, err := validateTyped(s.jwtSecret, accessToken, tokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("auth.Authenticate: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("auth.Authenticate: %w", ErrInvalidToken)
		}
		return nil, fmt.Errorf("auth.Authenticate: %w", err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("auth.Authenticate: %w", ErrInvalidToken)
	}

	return user, nil
}

func (s *Service) activeAdmin(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.UserType != domain.UserTypeAdmin || user.Status != domain.UserStatusActive {
		return nil, ErrNotAdmin
	}
	return user, nil
}

func (s *Service) issue(user *domain.UserProfile, withRefresh bool) (*Tokens, error) {
	access, err := IssueAccessToken(s.jwtSecret, user.ID, user.UserType, s.accessTTL)
	if err != nil {
		return nil, err
	}

	tokens := &Tokens{AccessToken: access, ExpiresIn: int64(s.accessTTL / time.Second)}
	if withRefresh {
		tokens.RefreshToken, err = IssueRefreshToken(s.jwtSecret, user.ID, user.UserType, s.refreshTTL)
		if err != nil {
			return nil, err
		}
	}
	return tokens, nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	saltHex, hashHex, ok := strings.Cut(encoded, "$")
	if !ok || saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Constant-time comparison to prevent timing attacks.
	if len(computed) != len(expectedHash) {
		return false
	}

	var diff byte
	for i := range computed {
		diff |= computed[i] ^ expectedHash[i]
	}

	return diff == 0
}
