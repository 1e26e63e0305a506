package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vouchrb/vouch/internal/config"
	"github.com/vouchrb/vouch/internal/printer"
	"github.com/vouchrb/vouch/internal/state"
)

var (
	statusApps         []string
	statusOutputFormat string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which versions have been attested",
	Long: `Show the attested versions recorded in the state file, one row per
(app, version) pair with the identifier of the published assertion.

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one entry per line

Examples:
  # Show all attested versions
  vouch status

  # Show a single app
  vouch status --app org.fossify.calendar

  # Feed the state into jq
  vouch status --output=jsonl | jq -r '.event_id'`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringArrayVar(&statusApps, "app", nil, "Show only this app (repeatable; defaults to all)")
	statusCmd.Flags().StringVarP(&statusOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error("configuration error", err.Error(), nil)
	}

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return printer.Error("failed to load state", err.Error(), nil)
	}

	if len(statusApps) > 0 {
		apps, err := selectApps(cfg, statusApps)
		if err != nil {
			return err
		}
		st = filterState(st, apps)
	}

	switch statusOutputFormat {
	case "default":
		state.FormatTable(os.Stdout, st)
	case "jsonl":
		if err := state.FormatJSONL(os.Stdout, st); err != nil {
			return err
		}
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", statusOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}
	return nil
}

// filterState returns a copy of the state restricted to the given apps.
// Apps with no recorded versions are simply absent from the result.
func filterState(st state.State, apps []string) state.State {
	filtered := state.State{}
	for _, id := range apps {
		if versions, ok := st[id]; ok {
			filtered[id] = versions
		}
	}
	return filtered
}
