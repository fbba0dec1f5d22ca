package cli

import (
	"github.com/spf13/cobra"

	"github.com/gosuda/backoffice/internal/store/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	for _, sub := range []struct {
		use, short string
		args       cobra.PositionalArgs
	}{
		{"up", "Apply all pending migrations", cobra.NoArgs},
		{"down", "Roll back the most recent migration", cobra.NoArgs},
		{"status", "Print the status of every migration", cobra.NoArgs},
		{"version", "Print the current schema version", cobra.NoArgs},
		{"redo", "Roll back and re-apply the most recent migration", cobra.NoArgs},
		{"up-to VERSION", "Apply migrations up to VERSION", cobra.ExactArgs(1)},
		{"down-to VERSION", "Roll back migrations down to VERSION", cobra.ExactArgs(1)},
	} {
		migrateCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  sub.args,
			RunE:  runMigrate,
		})
	}
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return postgres.Migrate(cmd.Context(), cfg.Database.DSN(), cmd.Name(), args...)
}
