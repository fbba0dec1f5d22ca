// Package auditlog records privileged admin actions in the append-only audit
// trail. Writes are best effort: they run detached from the triggering
// request and their failures never reach the caller.
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/metrics"
	redisstore "github.com/gosuda/backoffice/internal/store/redis"
)

// DefaultWriteTimeout bounds a single detached insert.
const DefaultWriteTimeout = 5 * time.Second

// RequestMeta is the client metadata attached to an audit record.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// MetaFromHeaders extracts client metadata. The address is the first entry of
// X-Forwarded-For when present, else X-Real-IP, else empty.
func MetaFromHeaders(h http.Header) RequestMeta {
	meta := RequestMeta{UserAgent: h.Get("User-Agent")}
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		meta.IPAddress = strings.TrimSpace(first)
	} else {
		meta.IPAddress = strings.TrimSpace(h.Get("X-Real-IP"))
	}
	return meta
}

type metaKey struct{}

// WithMeta stores request metadata in ctx for later audit calls.
func WithMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext returns the metadata stored by WithMeta, if any.
func MetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(metaKey{}).(RequestMeta)
	return meta
}

// Entry is one action to record. A zero AdminID means the system acted.
type Entry struct {
	AdminID    uuid.UUID
	Action     domain.LogAction
	EntityType domain.EntityType
	EntityID   *uuid.UUID
	Details    map[string]any
}

// Publisher fans persisted records out to live feeds.
type Publisher interface {
	PublishJSON(ctx context.Context, v any, channels ...string) error
}

type Logger struct {
	repo    domain.AdminLogRepository
	pub     Publisher
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

type Option func(*Logger)

// WithPublisher enables live fan-out of persisted records.
func WithPublisher(p Publisher) Option {
	return func(l *Logger) { l.pub = p }
}

func WithTimeout(d time.Duration) Option {
	return func(l *Logger) { l.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

func New(repo domain.AdminLogRepository, opts ...Option) *Logger {
	l := &Logger{
		repo:    repo,
		timeout: DefaultWriteTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log builds the record and persists it on a background goroutine. It must be
// called after the action it describes has committed, exactly once per action.
// It never blocks on storage and never reports an error.
func (l *Logger) Log(ctx context.Context, e Entry) {
	meta := MetaFromContext(ctx)
	rec := &domain.AdminLog{
		ID:         uuid.New(),
		AdminID:    e.AdminID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  l.now().UTC(),
	}

	// The write outlives the request: keep ctx values, drop its cancellation.
	detached := context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.persist(detached, rec)
	}()
}

func (l *Logger) persist(ctx context.Context, rec *domain.AdminLog) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	err := l.repo.Create(ctx, rec)
	metrics.AuditLogWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditLogFailuresTotal.Inc()
		log.Error().Err(err).
			Str("audit_id", rec.ID.String()).
			Str("admin_id", rec.AdminID.String()).
			Str("action", string(rec.Action)).
			Str("entity_type", string(rec.EntityType)).
			Msg("auditlog: failed to persist record")
		return
	}
	metrics.AuditLogWritesTotal.Inc()

	if l.pub == nil {
		return
	}
	channels := []string{redisstore.AdminLogChannel}
	if rec.EntityID != nil && rec.EntityType != "" {
		channels = append(channels, redisstore.EntityChannel(string(rec.EntityType), *rec.EntityID))
	}
	if err := l.pub.PublishJSON(ctx, rec, channels...); err != nil {
		log.Warn().Err(err).Str("audit_id", rec.ID.String()).Msg("auditlog: publish failed")
	}
}

// Wait blocks until every pending write has finished.
func (l *Logger) Wait() {
	l.wg.Wait()
}
