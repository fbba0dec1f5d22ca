package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/backoffice/internal/actions"
	"github.com/gosuda/backoffice/internal/api/ws"
	"github.com/gosuda/backoffice/internal/auditlog"
	"github.com/gosuda/backoffice/internal/metrics"
	"github.com/gosuda/backoffice/internal/notify"
	"github.com/gosuda/backoffice/internal/server"
	redisstore "github.com/gosuda/backoffice/internal/store/redis"
)

const poolStatsInterval = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the back-office HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics.StartPoolStatsCollector(ctx, store, poolStatsInterval)

	health := map[string]server.Pinger{"postgres": store}
	var auditOpts []auditlog.Option
	var feed *ws.Hub

	if cfg.Redis.Enabled {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()

		health["redis"] = pubsub
		auditOpts = append(auditOpts, auditlog.WithPublisher(pubsub))
		feed = ws.NewHub(pubsub, cfg.Server.CORSOrigins)
	} else {
		log.Info().Msg("redis disabled; live admin-log feed off")
	}

	var actionOpts []actions.Option
	var alerter *notify.SlackAlerter
	if cfg.Slack.Enabled() {
		alerter = notify.NewSlackAlerter(
			notify.NewSlackClient(cfg.Slack.BotToken),
			cfg.Slack.ChannelID,
			notify.WithDashboardURL(cfg.Server.PublicURL),
		)
		actionOpts = append(actionOpts, actions.WithAlerter(alerter))
		log.Info().Str("channel", cfg.Slack.ChannelID).Msg("slack escalation alerts enabled")
	}

	acts, authSvc, audit := newActions(cfg, store, auditOpts, actionOpts...)

	srv := server.New(ctx, cfg, server.Deps{
		Sessions:      acts,
		Backoffice:    acts,
		Authenticator: authSvc,
		Feed:          feed,
		Health:        health,
	})

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	// Flush detached audit writes and alerts before the pools close.
	audit.Wait()
	if alerter != nil {
		alerter.Wait()
	}

	log.Info().Msg("stopped")
	return nil
}
