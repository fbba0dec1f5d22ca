package domain

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Pagination bounds shared by every list endpoint.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// FilterAll is the sentinel meaning "no restriction" for enumerated filters.
const FilterAll = "all"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery is the filter/sort/page request accepted by every list operation.
// Enumerated filters hold raw codes; empty or "all" disables them.
type ListQuery struct {
	Search     string
	Status     string
	Type       string
	Priority   string
	Action     string
	AssignedTo *uuid.UUID
	ActorID    *uuid.UUID
	DateFrom   *time.Time // inclusive
	DateTo     *time.Time // exclusive
	SortBy     string
	SortOrder  SortOrder
	Page       int
	Limit      int
}

// SortSpec describes what a list endpoint accepts: the sortable keys with
// their default, and the allowed values for each enumerated filter. A nil
// filter slice means the endpoint does not support that filter.
type SortSpec struct {
	Fields       []string
	DefaultField string
	DefaultOrder SortOrder

	Statuses   []string
	Types      []string
	Priorities []string
	Actions    []string
}

// Normalize returns a copy of q with defaults applied and the sort resolved
// against sorts. Unknown sort keys fall back to sorts.DefaultField and unknown
// orders to sorts.DefaultOrder; enumerated filters outside the allowed set are
// rejected with a ValidationError.
func (q ListQuery) Normalize(sorts SortSpec) (ListQuery, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultPageLimit
	case q.Limit > MaxPageLimit:
		q.Limit = MaxPageLimit
	}
	// Pages past maxPage would overflow the offset; they are empty anyway.
	if maxPage := math.MaxInt/q.Limit + 1; q.Page > maxPage {
		q.Page = maxPage
	}

	if !slices.Contains(sorts.Fields, q.SortBy) {
		q.SortBy = sorts.DefaultField
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = sorts.DefaultOrder
	}

	var err error
	if q.Status, err = normalizeEnum("status", q.Status, sorts.Statuses); err != nil {
		return q, err
	}
	if q.Type, err = normalizeEnum("type", q.Type, sorts.Types); err != nil {
		return q, err
	}
	if q.Priority, err = normalizeEnum("priority", q.Priority, sorts.Priorities); err != nil {
		return q, err
	}
	if q.Action, err = normalizeEnum("action", q.Action, sorts.Actions); err != nil {
		return q, err
	}

	if q.DateFrom != nil && q.DateTo != nil && !q.DateFrom.Before(*q.DateTo) {
		return q, Invalid("dateFrom", "must be before dateTo")
	}

	return q, nil
}

// Offset is the number of rows skipped before the current page.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

func normalizeEnum(field, v string, allowed []string) (string, error) {
	if v == "" || v == FilterAll {
		return "", nil
	}
	if !slices.Contains(allowed, v) {
		return "", Invalid(field, "unsupported value "+v)
	}
	return v, nil
}

// Page is one page of a filtered, sorted list plus statistics computed over
// the same filtered population.
type Page[T, S any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Stats      S     `json:"stats"`
}

// NewPage assembles a Page from a normalized query.
func NewPage[T, S any](q ListQuery, items []T, total int64, stats S) *Page[T, S] {
	if items == nil {
		items = []T{}
	}
	return &Page[T, S]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
		Stats:      stats,
	}
}

// TotalPages is ceil(total/limit), zero when there are no rows.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Rate returns num/den as a percentage rounded to one decimal, or nil when
// den is zero.
func Rate(num, den int64) *float64 {
	if den <= 0 {
		return nil
	}
	v := math.Round(float64(num)*1000/float64(den)) / 10
	v = math.Max(0, math.Min(100, v))
	return &v
}

// Round1 rounds an optional average to one decimal.
func Round1(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}
