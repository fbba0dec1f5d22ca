package v1

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/backoffice/internal/domain"
)

// ListParams are the query parameters shared by every list endpoint. Numbers
// are read leniently: a missing or malformed page or limit takes its default.
type ListParams struct {
	Page       string `query:"page" doc:"Page number, starting at 1"`
	Limit      string `query:"limit" doc:"Page size, at most 100"`
	Search     string `query:"search" doc:"Free-text search"`
	Status     string `query:"status" doc:"Status filter, 'all' for none"`
	Type       string `query:"type" doc:"Type filter, 'all' for none"`
	Priority   string `query:"priority" doc:"Priority filter, 'all' for none"`
	Action     string `query:"action" doc:"Action filter (admin logs)"`
	AssignedTo string `query:"assignedTo" doc:"Assignee admin ID (disputes)"`
	AdminID    string `query:"adminId" doc:"Acting admin ID (admin logs)"`
	DateFrom   string `query:"dateFrom" doc:"Inclusive lower bound, RFC 3339 or YYYY-MM-DD"`
	DateTo     string `query:"dateTo" doc:"Upper bound, RFC 3339 (exclusive) or YYYY-MM-DD (inclusive day)"`
	SortBy     string `query:"sortBy" doc:"Sort key; unknown keys use the default sort"`
	SortOrder  string `query:"sortOrder" doc:"asc or desc; anything else uses the default order"`
}

// Query converts the parameters into a list query. Only malformed ids and
// dates are errors; the rest is normalized by the service.
func (p ListParams) Query() (domain.ListQuery, error) {
	q := domain.ListQuery{
		Search:    strings.TrimSpace(p.Search),
		Status:    p.Status,
		Type:      p.Type,
		Priority:  p.Priority,
		Action:    p.Action,
		SortBy:    p.SortBy,
		SortOrder: domain.SortOrder(p.SortOrder),
		Page:      atoiOr(p.Page, 1),
		Limit:     atoiOr(p.Limit, 0),
	}

	var err error
	if q.AssignedTo, err = parseOptionalID("assignedTo", p.AssignedTo); err != nil {
		return q, err
	}
	if q.ActorID, err = parseOptionalID("adminId", p.AdminID); err != nil {
		return q, err
	}
	if q.DateFrom, err = parseDate("dateFrom", p.DateFrom, false); err != nil {
		return q, err
	}
	if q.DateTo, err = parseDate("dateTo", p.DateTo, true); err != nil {
		return q, err
	}
	return q, nil
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, domain.Invalid(field, "must be a UUID")
	}
	return id, nil
}

func parseOptionalID(field, s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate accepts RFC 3339 timestamps and calendar days. A day used as an
// upper bound covers the whole day.
func parseDate(field, s string, upper bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, domain.Invalid(field, "must be a date")
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
