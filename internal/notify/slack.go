// Package notify delivers operator alerts to Slack.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/backoffice/internal/domain"
	"github.com/gosuda/backoffice/internal/metrics"
)

// DefaultSendTimeout bounds a single detached Slack call.
const DefaultSendTimeout = 10 * time.Second

// SlackAPI abstracts the subset of the Slack client used by SlackAlerter.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackAlerter posts escalated disputes to an operations channel. Sends are
// best effort and never block or fail the admin action that triggered them.
type SlackAlerter struct {
	api       SlackAPI
	channelID string
	baseURL   string
	timeout   time.Duration
	wg        sync.WaitGroup
}

type Option func(*SlackAlerter)

// WithDashboardURL makes alerts link back to the dispute page under baseURL.
func WithDashboardURL(baseURL string) Option {
	return func(a *SlackAlerter) { a.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout overrides DefaultSendTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *SlackAlerter) { a.timeout = d }
}

// NewSlackAlerter creates an alerter posting to channelID.
func NewSlackAlerter(api SlackAPI, channelID string, opts ...Option) *SlackAlerter {
	a := &SlackAlerter{api: api, channelID: channelID, timeout: DefaultSendTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewSlackClient builds the real Slack client for token.
func NewSlackClient(token string) *slacklib.Client {
	return slacklib.New(token)
}

// DisputeEscalated posts the alert in the background.
func (a *SlackAlerter) DisputeEscalated(ctx context.Context, d *domain.Dispute) {
	snapshot := *d
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		sendCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.send(sendCtx, &snapshot); err != nil {
			metrics.SlackAlertsTotal.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("dispute_id", snapshot.ID.String()).Msg("escalation alert not delivered")
			return
		}
		metrics.SlackAlertsTotal.WithLabelValues("sent").Inc()
	}()
}

// Wait blocks until every pending alert has been attempted.
func (a *SlackAlerter) Wait() {
	a.wg.Wait()
}

func (a *SlackAlerter) send(ctx context.Context, d *domain.Dispute) error {
	link := ""
	if a.baseURL != "" {
		link = a.baseURL + "/disputes/" + d.ID.String()
	}

	_, _, err := a.api.PostMessageContext(ctx, a.channelID,
		slacklib.MsgOptionText(EscalationText(d), false),
		slacklib.MsgOptionBlocks(BuildEscalationBlocks(d, link)...),
	)
	if err != nil {
		return fmt.Errorf("notify.SlackAlerter.send: %w", err)
	}
	return nil
}
