package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// SetStatus moves a client or executant account to status and returns the
// change. Setting the current status again is an invalid transition.
func (s *UserService) SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (*StatusChange, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("service.UserService.SetStatus: %w", domain.Invalid("status", "unsupported value "+string(status)))
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.SetStatus: %w", err)
	}
	if u.UserType == domain.UserTypeAdmin {
		return nil, fmt.Errorf("service.UserService.SetStatus: %w", domain.Invalid("userId", "admin accounts cannot be moderated"))
	}
	if u.Status == status {
		return nil, fmt.Errorf("service.UserService.SetStatus: already %s: %w", status, domain.ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("service.UserService.SetStatus: %w", err)
	}

	return &StatusChange{UserID: id, From: u.Status, To: status}, nil
}
