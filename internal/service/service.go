// Package service implements the back-office use cases on top of the domain
// repositories: filtered listings with their statistics, and the admin
// mutations (dispute lifecycle, sanctions, validations, withdrawals).
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// listPage runs the shared list contract: normalize q against sorts, fetch the
// page and the aggregate counts with the same normalized query, then derive
// the stats from the counts.
func listPage[T, C, S any](
	ctx context.Context,
	caller string,
	q domain.ListQuery,
	sorts domain.SortSpec,
	list func(context.Context, domain.ListQuery) ([]T, int64, error),
	aggregate func(context.Context, domain.ListQuery) (C, error),
	stats func(total int64, counts C) S,
) (*domain.Page[T, S], error) {
	q, err := q.Normalize(sorts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	items, total, err := list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", caller, err)
	}

	counts, err := aggregate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", caller, err)
	}

	return domain.NewPage(q, items, total, stats(total, counts)), nil
}

// StatusChange describes an account status update caused by a sanction.
type StatusChange struct {
	UserID uuid.UUID
	From   domain.UserStatus
	To     domain.UserStatus
}

// severity orders account statuses from least to most restrictive.
func severity(s domain.UserStatus) int {
	switch s {
	case domain.UserStatusSuspended:
		return 1
	case domain.UserStatusBanned:
		return 2
	default:
		return 0
	}
}

func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", domain.Invalid(field, "required")
	}
	return v, nil
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
