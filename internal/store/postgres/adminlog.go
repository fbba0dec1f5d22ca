package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/backoffice/internal/domain"
)

// AdminLogRepo persists the audit trail. It only ever inserts and reads.
type AdminLogRepo struct {
	pool *pgxpool.Pool
}

func NewAdminLogRepo(pool *pgxpool.Pool) *AdminLogRepo {
	return &AdminLogRepo{pool: pool}
}

const adminLogFrom = `FROM admin_logs l
	LEFT JOIN user_profiles a ON a.id = l.admin_id`

var adminLogListing = listing{
	caller: "adminLogRepo.List",
	columns: `l.id, l.admin_id, COALESCE(` + fullName("a") + `, ''), l.action, l.entity_type, l.entity_id,
		l.details, l.ip_address, l.user_agent, l.created_at`,
	from: adminLogFrom,
	sorts: map[string]string{
		"createdAt":  "l.created_at",
		"action":     "l.action",
		"entityType": "l.entity_type",
	},
	sortKey: "createdAt",
	id:      "l.id",
}

// adminLogFilter uses Type for the entity type, Action for the action code
// and ActorID for the admin.
func adminLogFilter(q domain.ListQuery) *whereClause {
	w := &whereClause{}
	w.eq("l.action", q.Action)
	w.eq("l.entity_type", q.Type)
	w.eqID("l.admin_id", q.ActorID)
	w.between("l.created_at", q.DateFrom, q.DateTo)
	w.search(q.Search, fullName("a"), "a.email", "l.ip_address", "l.details::text")
	return w
}

func (r *AdminLogRepo) Create(ctx context.Context, l *domain.AdminLog) error {
	details, err := json.Marshal(l.Details)
	if err != nil {
		return fmt.Errorf("adminLogRepo.Create: marshal details: %w", err)
	}
	if l.Details == nil {
		details = []byte("{}")
	}

	var entityType *string
	if l.EntityType != "" {
		et := string(l.EntityType)
		entityType = &et
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO admin_logs (id, admin_id, action, entity_type, entity_id, details, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, nullableID(l.AdminID), l.Action, entityType, l.EntityID,
		details, l.IPAddress, l.UserAgent, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adminLogRepo.Create: %w", err)
	}

	return nil
}

func (r *AdminLogRepo) List(ctx context.Context, q domain.ListQuery) ([]*domain.AdminLog, int64, error) {
	rows, total, err := adminLogListing.query(ctx, r.pool, adminLogFilter(q), q)
	if err != nil {
		return nil, 0, err
	}

	logs, err := collect(rows, adminLogListing.caller, scanAdminLog)
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *AdminLogRepo) Aggregate(ctx context.Context, q domain.ListQuery) (*domain.AdminLogCounts, error) {
	w := adminLogFilter(q)

	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(l.entity_type, ''), COUNT(*), COUNT(DISTINCT l.admin_id)
		 `+adminLogFrom+w.String()+`
		 GROUP BY ROLLUP (COALESCE(l.entity_type, ''))`,
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("adminLogRepo.Aggregate: %w", err)
	}
	defer rows.Close()

	c := domain.AdminLogCounts{ByEntityType: map[domain.EntityType]int64{}}
	for rows.Next() {
		var entityType *string
		var n, admins int64
		if err := rows.Scan(&entityType, &n, &admins); err != nil {
			return nil, fmt.Errorf("adminLogRepo.Aggregate: scan: %w", err)
		}
		// The ROLLUP grand-total row has a NULL grouping key.
		if entityType == nil {
			c.Total = n
			c.DistinctAdmins = admins
			continue
		}
		if *entityType != "" {
			c.ByEntityType[domain.EntityType(*entityType)] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("adminLogRepo.Aggregate: rows: %w", err)
	}

	return &c, nil
}

func scanAdminLog(rows pgx.Rows) (*domain.AdminLog, error) {
	var (
		l          domain.AdminLog
		adminID    *uuid.UUID
		entityType *string
		details    []byte
	)
	err := rows.Scan(&l.ID, &adminID, &l.AdminName, &l.Action, &entityType, &l.EntityID,
		&details, &l.IPAddress, &l.UserAgent, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if adminID != nil {
		l.AdminID = *adminID
	}
	if entityType != nil {
		l.EntityType = domain.EntityType(*entityType)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &l.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	return &l, nil
}
