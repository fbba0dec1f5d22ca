package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// maxSettingValue bounds the size of a stored setting value.
const maxSettingValue = 1024

type SettingService struct {
	repo domain.SettingRepository
}

func NewSettingService(repo domain.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

func (s *SettingService) List(ctx context.Context) ([]*domain.Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SettingService.List: %w", err)
	}
	if settings == nil {
		settings = []*domain.Setting{}
	}
	return settings, nil
}

// Update changes an existing setting and returns its previous value.
func (s *SettingService) Update(ctx context.Context, key, value string, by uuid.UUID) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("service.SettingService.Update: %w", domain.Invalid("key", "required"))
	}
	value, err := required("value", value)
	if err != nil {
		return "", fmt.Errorf("service.SettingService.Update: %w", err)
	}
	if len(value) > maxSettingValue {
		return "", fmt.Errorf("service.SettingService.Update: %w", domain.Invalid("value", "too long"))
	}

	prev, err := s.repo.Update(ctx, key, value, by)
	if err != nil {
		return "", fmt.Errorf("service.SettingService.Update: %w", err)
	}
	return prev, nil
}
