package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

type SettingRepo struct {
	pool *pgxpool.Pool
}

func NewSettingRepo(pool *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{pool: pool}
}

func (r *SettingRepo) List(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value, description, updated_at, updated_by FROM platform_settings ORDER BY key`,
	)
	if err != nil {
		return nil, fmt.Errorf("settingRepo.List: %w", err)
	}

	return collect(rows, "settingRepo.List", scanSetting)
}

func (r *SettingRepo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value, description, updated_at, updated_by FROM platform_settings WHERE key = $1`, key,
	)
	if err != nil {
		return nil, fmt.Errorf("settingRepo.Get: %w", err)
	}

	settings, err := collect(rows, "settingRepo.Get", scanSetting)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, fmt.Errorf("settingRepo.Get: %w", domain.ErrNotFound)
	}

	return settings[0], nil
}

func (r *SettingRepo) Update(ctx context.Context, key, value string, by uuid.UUID) (string, error) {
	var previous string
	err := r.pool.QueryRow(ctx,
		`UPDATE platform_settings s
		 SET value = $1, updated_at = now(), updated_by = $2
		 FROM (SELECT key, value FROM platform_settings WHERE key = $3 FOR UPDATE) old
		 WHERE s.key = old.key
		 RETURNING old.value`,
		value, by, key,
	).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("settingRepo.Update: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("settingRepo.Update: %w", err)
	}

	return previous, nil
}

func scanSetting(rows pgx.Rows) (*domain.Setting, error) {
	var s domain.Setting
	if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt, &s.UpdatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}
