package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vouchrb/vouch/internal/config"
)

var (
	version string
	commit  string
	date    string
)

// configPath is shared by every subcommand that reads vouch.yml.
var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vouch",
	Short: "Vouch - reproducible-build attestation publisher",
	Long: `Vouch checks reproducible-build logs for newly verified app versions
and publishes signed assertion and attestation events for them.

For each configured app it resolves the app's definition record, fetches
the upstream build log, diffs it against local state, and for every new
version publishes a linked pair of events through the nak command line
tool. Versions already attested are never reported twice.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	// e.g., "vouch --dry-run" instead of "vouch check --dry-run"
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is specified, show help
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")
}
