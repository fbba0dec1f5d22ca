package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Setting is a platform-wide key/value parameter editable by admins.
type Setting struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Description string     `json:"description,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty"`
}

type SettingRepository interface {
	List(ctx context.Context) ([]*Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	// Update changes the value of an existing key and returns the previous value.
	Update(ctx context.Context, key, value string, by uuid.UUID) (string, error)
}
