package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/metrics"
	"github.com/gosuda/backoffice/internal/notify"
)

type postedMessage struct {
	channelID string
	opts      int
	deadline  bool
}

type mockSlackAPI struct {
	mu     sync.Mutex
	posted []postedMessage
	err    error
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", "", m.err
	}
	_, hasDeadline := ctx.Deadline()
	m.posted = append(m.posted, postedMessage{channelID: channelID, opts: len(options), deadline: hasDeadline})
	return channelID, "1700000000.000100", nil
}

func (m *mockSlackAPI) messages() []postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]postedMessage(nil), m.posted...)
}

func escalated() *domain.Dispute {
	return &domain.Dispute{
		ID:            uuid.New(),
		ClientName:    "Acme",
		ExecutantName: "Jeanne Martin",
		Type:          domain.DisputeTypeQuality,
		Priority:      domain.DisputePriorityHigh,
		Status:        domain.DisputeStatusEscalated,
		Reason:        "Livrable incomplet",
		SubmittedAt:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestSlackAlerter_PostsToChannel(t *testing.T) {
	api := &mockSlackAPI{}
	alerter := notify.NewSlackAlerter(api, "C-OPS")
	sent := testutil.ToFloat64(metrics.SlackAlertsTotal.WithLabelValues("sent"))

	ctx, cancel := context.WithCancel(context.Background())
	alerter.DisputeEscalated(ctx, escalated())
	cancel()
	alerter.Wait()

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "C-OPS", msgs[0].channelID)
	assert.Equal(t, 2, msgs[0].opts)
	assert.True(t, msgs[0].deadline, "send must be bounded")
	assert.InDelta(t, sent+1, testutil.ToFloat64(metrics.SlackAlertsTotal.WithLabelValues("sent")), 0)
}

func TestSlackAlerter_FailureIsSwallowed(t *testing.T) {
	api := &mockSlackAPI{err: errors.New("channel_not_found")}
	alerter := notify.NewSlackAlerter(api, "C-OPS", notify.WithTimeout(time.Second))
	failed := testutil.ToFloat64(metrics.SlackAlertsTotal.WithLabelValues("error"))

	alerter.DisputeEscalated(context.Background(), escalated())
	alerter.Wait()

	assert.Empty(t, api.messages())
	assert.InDelta(t, failed+1, testutil.ToFloat64(metrics.SlackAlertsTotal.WithLabelValues("error")), 0)
}

func TestBuildEscalationBlocks(t *testing.T) {
	t.Parallel()

	d := escalated()

	t.Run("without link", func(t *testing.T) {
		t.Parallel()

		blocks := notify.BuildEscalationBlocks(d, "")
		require.Len(t, blocks, 2)

		header, ok := blocks[0].(*slacklib.HeaderBlock)
		require.True(t, ok, "first block should be a HeaderBlock")
		assert.Equal(t, "Litige escaladé", header.Text.Text)

		section, ok := blocks[1].(*slacklib.SectionBlock)
		require.True(t, ok, "second block should be a SectionBlock")
		assert.Contains(t, section.Text.Text, "Livrable incomplet")
		assert.Contains(t, section.Text.Text, "Acme")
		assert.Contains(t, section.Text.Text, "05/03/2024")
		require.Len(t, section.Fields, 2)
	})

	t.Run("with link", func(t *testing.T) {
		t.Parallel()

		link := "https://admin.example.com/disputes/" + d.ID.String()
		blocks := notify.BuildEscalationBlocks(d, link)
		require.Len(t, blocks, 3)

		actions, ok := blocks[2].(*slacklib.ActionBlock)
		require.True(t, ok, "last block should be an ActionBlock")
		require.Len(t, actions.Elements.ElementSet, 1)
		btn, ok := actions.Elements.ElementSet[0].(*slacklib.ButtonBlockElement)
		require.True(t, ok)
		assert.Equal(t, link, btn.URL)
		assert.Equal(t, d.ID.String(), btn.Value)
	})
}

func TestEscalationText(t *testing.T) {
	t.Parallel()

	assert.Contains(t, notify.EscalationText(escalated()), "Livrable incomplet")
}
