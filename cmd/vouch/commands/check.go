package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vouchrb/vouch/internal/checker"
	"github.com/vouchrb/vouch/internal/config"
	"github.com/vouchrb/vouch/internal/nak"
	"github.com/vouchrb/vouch/internal/printer"
	"github.com/vouchrb/vouch/internal/rblog"
	"github.com/vouchrb/vouch/internal/state"
	"github.com/vouchrb/vouch/internal/template"
)

var (
	checkApps        []string
	checkDryRun      bool
	checkAllVersions bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check build logs and publish attestations for new versions",
	Long: `Check the reproducible-build log of each configured app for versions
that have not been attested yet, and publish an assertion/attestation
event pair for each one.

By default only the newest unattested version of each app is processed;
use --all-versions to process every unattested version. A failing app
does not stop the run, but any failure makes the exit code non-zero.

Examples:
  # Check every configured app
  vouch check

  # Check a single app without publishing or saving state
  vouch check --app org.fossify.calendar --dry-run

  # Catch up on every version the log knows about
  vouch check --all-versions`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVar(&checkApps, "app", nil, "Check only this app (repeatable; defaults to all configured apps)")
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "Render and print events without publishing or saving state")
	checkCmd.Flags().BoolVar(&checkAllVersions, "all-versions", false, "Process every new version instead of only the latest")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error(
			"configuration error",
			err.Error(),
			[]string{
				fmt.Sprintf("Check that %s exists and is valid YAML", configPath),
				"See vouch.example.yml for the expected layout",
			},
		)
	}
	if checkAllVersions {
		cfg.Mode = config.ModeAll
	}

	appIDs, err := selectApps(cfg, checkApps)
	if err != nil {
		return err
	}

	// The external publisher is required even for dry runs: queries for
	// app definitions and release records still go through it.
	relay := nak.NewClient(cfg.Nostr.Relays)
	nakVersion, err := relay.Version(ctx)
	if err != nil {
		return printer.Error(
			"nak is not available",
			err.Error(),
			[]string{"Install nak from https://github.com/fiatjaf/nak/releases and ensure it is in PATH"},
		)
	}
	printer.Info("Using nak %s\n", nakVersion)
	if checkDryRun {
		printer.Warning("DRY RUN: no events will be published and state will not be saved")
	}

	assertion, err := template.Load(cfg.Templates.Assertion)
	if err != nil {
		return printer.Error("failed to load assertion template", err.Error(), nil)
	}
	attestation, err := template.Load(cfg.Templates.Attestation)
	if err != nil {
		return printer.Error("failed to load attestation template", err.Error(), nil)
	}

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return printer.Error(
			"failed to load state",
			err.Error(),
			[]string{fmt.Sprintf("Fix or remove %s; a missing file is treated as empty state", cfg.StateFile)},
		)
	}

	logs := rblog.NewClient(cfg.LogSource.BaseURL, time.Duration(cfg.LogSource.TimeoutSeconds)*time.Second)

	engine := checker.NewEngine(cfg, logs, relay, st, assertion, attestation, checkDryRun)
	report := engine.Run(ctx, appIDs)

	if !checkDryRun {
		if err := engine.State().Save(cfg.StateFile); err != nil {
			return printer.Error("failed to save state", err.Error(), nil)
		}
	}

	report.Print()

	if report.Failed() {
		// Failures are already printed with context; exit non-zero.
		return fmt.Errorf("%d app(s) failed", len(report.Failures))
	}
	return nil
}

// selectApps returns the explicitly requested app ids, or every configured
// app in sorted order when none are given. Unknown ids are rejected up
// front rather than surfacing as per-app failures mid-run.
func selectApps(cfg *config.Config, requested []string) ([]string, error) {
	if len(requested) == 0 {
		all := make([]string, 0, len(cfg.Apps))
		for id := range cfg.Apps {
			all = append(all, id)
		}
		sort.Strings(all)
		return all, nil
	}

	for _, id := range requested {
		if _, ok := cfg.Apps[id]; !ok {
			return nil, printer.Error(
				"unknown app",
				fmt.Sprintf("app '%s' is not defined in the configuration", id),
				[]string{fmt.Sprintf("Add an entry for it under 'apps:' in %s", configPath)},
			)
		}
	}
	return requested, nil
}
