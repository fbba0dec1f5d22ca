package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/api/ws"
	redisstore "github.com/gosuda/backoffice/internal/store/redis"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	channels []string
	feed     chan []byte
	err      error
	closed   chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{feed: make(chan []byte, 4), closed: make(chan struct{})}
}

func (f *fakeSubscriber) Subscribe(_ context.Context, channel string) (<-chan []byte, func(), error) {
	f.mu.Lock()
	f.channels = append(f.channels, channel)
	f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}
	var once sync.Once
	return f.feed, func() { once.Do(func() { close(f.closed) }) }, nil
}

func (f *fakeSubscriber) subscribed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.channels...)
}

func newServer(t *testing.T, sub ws.Subscriber) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	ws.NewHub(sub, nil).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestHub_ForwardsAdminLogs(t *testing.T) {
	t.Parallel()

	sub := newFakeSubscriber()
	srv := newServer(t, sub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "/admin-logs"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	sub.feed <- []byte(`{"action":"dispute_status_changed"}`)

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.JSONEq(t, `{"action":"dispute_status_changed"}`, string(data))
	assert.Equal(t, []string{redisstore.AdminLogChannel}, sub.subscribed())

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	select {
	case <-sub.closed:
	case <-ctx.Done():
		t.Fatal("subscription not released after client closed")
	}
}

func TestHub_EntityChannel(t *testing.T) {
	t.Parallel()

	sub := newFakeSubscriber()
	srv := newServer(t, sub)
	id := uuid.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "/admin-logs/dispute/"+id.String()), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	sub.feed <- []byte(`{}`)
	_, _, err = conn.Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{redisstore.EntityChannel("dispute", id)}, sub.subscribed())
}

func TestHub_EntityRejections(t *testing.T) {
	t.Parallel()

	sub := newFakeSubscriber()
	srv := newServer(t, sub)

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown entity type", path: "/admin-logs/rocket/" + uuid.NewString()},
		{name: "malformed id", path: "/admin-logs/dispute/not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, sub.subscribed())
}

func TestHub_SubscribeFailureClosesConnection(t *testing.T) {
	t.Parallel()

	sub := newFakeSubscriber()
	sub.err = assert.AnError
	srv := newServer(t, sub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "/admin-logs"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	_, _, err = conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusInternalError, websocket.CloseStatus(err))
}
