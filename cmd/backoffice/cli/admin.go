package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var adminFlags struct {
	email     string
	firstName string
	lastName  string
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage back-office accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin account. The password is read from the
BACKOFFICE_ADMIN_PASSWORD environment variable so it never appears in
shell history or process listings.`,
	Example: `  BACKOFFICE_ADMIN_PASSWORD=... backoffice admin create --email ops@example.com --first-name Camille --last-name Durand`,
	Args:    cobra.NoArgs,
	RunE:    runAdminCreate,
}

func init() {
	f := adminCreateCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "login email")
	f.StringVar(&adminFlags.firstName, "first-name", "", "first name")
	f.StringVar(&adminFlags.lastName, "last-name", "", "last name")
	_ = adminCreateCmd.MarkFlagRequired("email")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	password := os.Getenv("BACKOFFICE_ADMIN_PASSWORD")
	if password == "" {
		return errors.New("BACKOFFICE_ADMIN_PASSWORD is required")
	}

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

	user, err := acts.CreateAdmin(ctx, adminFlags.email, password, adminFlags.firstName, adminFlags.lastName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}
