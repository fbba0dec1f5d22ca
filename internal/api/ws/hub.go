// Package ws serves the live admin-log feed over WebSocket.
package ws

import (
	"context"
	"net/http"
	"slices"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/metrics"
	redisstore "github.com/gosuda/backoffice/internal/store/redis"
)

// Subscriber streams raw payloads published on a channel.
// *redisstore.PubSub satisfies this interface.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	sub        Subscriber
	acceptOpts *websocket.AcceptOptions
}

// NewHub creates a new WebSocket hub. originPatterns lists the extra hosts
// allowed to open a feed from a browser; same-origin is always allowed.
func NewHub(sub Subscriber, originPatterns []string) *Hub {
	return &Hub{
		sub:        sub,
		acceptOpts: &websocket.AcceptOptions{OriginPatterns: originPatterns},
	}
}

// Routes mounts the feed endpoints on r. Callers must authenticate and
// restrict r to admins.
func (h *Hub) Routes(r chi.Router) {
	r.Get("/admin-logs", h.ServeAdminLogs)
	r.Get("/admin-logs/{entityType}/{entityID}", h.ServeEntityLogs)
}

// ServeAdminLogs streams every audit record as it is persisted.
func (h *Hub) ServeAdminLogs(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, redisstore.AdminLogChannel)
}

// ServeEntityLogs streams audit records about a single entity.
// Subscribes to Redis channel "admin-logs:<entityType>:<entityID>".
func (h *Hub) ServeEntityLogs(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	if !slices.Contains(domain.EntityTypes, entityType) {
		http.Error(w, "unknown entity type", http.StatusBadRequest)
		return
	}

	entityID, err := uuid.Parse(chi.URLParam(r, "entityID"))
	if err != nil {
		http.Error(w, "invalid entity id", http.StatusBadRequest)
		return
	}

	h.stream(w, r, redisstore.EntityChannel(entityType, entityID))
}

func (h *Hub) stream(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := websocket.Accept(w, r, h.acceptOpts)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	metrics.ActiveWebSocketClients.Inc()
	defer metrics.ActiveWebSocketClients.Dec()

	// The feed is write-only; CloseRead answers pings and reports the
	// client going away through ctx.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.sub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
