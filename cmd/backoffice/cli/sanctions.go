package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sanctionsCmd = &cobra.Command{
	Use:   "sanctions",
	Short: "Sanction maintenance",
}

var sanctionsExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Close sanctions whose end date has passed",
	Long: `Close every active sanction whose end date has passed and reactivate
accounts left without a restricting sanction. Meant to be run periodically
by an external scheduler such as cron or a Kubernetes CronJob.`,
	Args: cobra.NoArgs,
	RunE: runSanctionsExpire,
}

func init() {
	sanctionsCmd.AddCommand(sanctionsExpireCmd)
	rootCmd.AddCommand(sanctionsCmd)
}

func runSanctionsExpire(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	acts, _, audit := newActions(cfg, store, nil)
	defer audit.Wait()

	n, err := acts.ExpireSanctions(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "expired %d sanction(s)\n", n)
	return err
}
