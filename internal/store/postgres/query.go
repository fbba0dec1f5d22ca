package postgres

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

// whereClause accumulates AND-ed predicates with positional arguments. Only
// values are ever bound; column names come from the repository itself.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereClause) add(cond string) {
	w.conds = append(w.conds, cond)
}

// eq restricts col to v. An empty v (no filter, or "all") adds nothing.
func (w *whereClause) eq(col, v string) {
	if v == "" {
		return
	}
	w.add(col + " = " + w.arg(v))
}

func (w *whereClause) eqID(col string, id *uuid.UUID) {
	if id == nil {
		return
	}
	w.add(col + " = " + w.arg(*id))
}

func (w *whereClause) in(col string, vals []string) {
	if len(vals) == 0 {
		return
	}
	w.add(col + " = ANY(" + w.arg(vals) + ")")
}

// between applies the half-open range [from, to) on col.
func (w *whereClause) between(col string, from, to *time.Time) {
	if from != nil {
		w.add(col + " >= " + w.arg(*from))
	}
	if to != nil {
		w.add(col + " < " + w.arg(*to))
	}
}

// search matches term case-insensitively as a substring of any of cols.
func (w *whereClause) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	p := w.arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	w.add("(" + strings.Join(parts, " OR ") + ")")
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderBy renders the ORDER BY clause for a normalized query. Unknown keys
// use the column of defaultKey; id is always appended so pages are
// deterministic.
func orderBy(columns map[string]string, q domain.ListQuery, defaultKey, id string) string {
	col, ok := columns[q.SortBy]
	if !ok {
		col = columns[defaultKey]
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, %s %s", col, dir, id, dir)
}

// listing is the shape shared by every paginated list: the selected columns,
// the FROM/JOIN clause and the allowed sort columns.
type listing struct {
	caller  string
	columns string
	from    string
	sorts   map[string]string
	sortKey string // default key in sorts
	id      string
}

// query runs the COUNT and the page query over the same predicate. The
// returned rows are nil when total is zero.
func (l listing) query(ctx context.Context, pool *pgxpool.Pool, w *whereClause, q domain.ListQuery) (pgx.Rows, int64, error) {
	where := w.String()

	var total int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) "+l.from+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", l.caller, err)
	}
	if total == 0 || q.Offset() >= int(total) {
		return nil, total, nil
	}

	args := slices.Clone(w.args)
	args = append(args, q.Limit, q.Offset())
	sql := "SELECT " + l.columns + " " + l.from + where +
		orderBy(l.sorts, q, l.sortKey, l.id) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", l.caller, err)
	}

	return rows, total, nil
}

// collect scans every row with scan, closing rows. A nil rows yields an
// empty slice.
func collect[T any](rows pgx.Rows, caller string, scan func(pgx.Rows) (*T, error)) ([]*T, error) {
	out := []*T{}
	if rows == nil {
		return out, nil
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return out, nil
}

// fullName is the display name of a user_profiles row aliased as alias.
func fullName(alias string) string {
	return "TRIM(" + alias + ".first_name || ' ' || " + alias + ".last_name)"
}

func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
