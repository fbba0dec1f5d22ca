package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "backoffice dev\n", out)
}

func TestAdminCreate_RequiresPassword(t *testing.T) {
	t.Setenv("BACKOFFICE_ADMIN_PASSWORD", "")

	_, err := run(t, "admin", "create", "--email", "ops@example.com")
	assert.ErrorContains(t, err, "BACKOFFICE_ADMIN_PASSWORD")
}

func TestMigrate_Subcommands(t *testing.T) {
	names := make([]string, 0, len(migrateCmd.Commands()))
	for _, c := range migrateCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status", "version", "redo", "up-to", "down-to"}, names)
}

func TestMigrate_UpToNeedsVersion(t *testing.T) {
	_, err := run(t, "migrate", "up-to")
	assert.Error(t, err)
}
