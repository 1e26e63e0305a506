package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vouchrb/vouch/internal/config"
	"github.com/vouchrb/vouch/internal/nak"
	"github.com/vouchrb/vouch/internal/printer"
	"github.com/vouchrb/vouch/internal/template"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the local setup",
	Long: `Run diagnostic checks against the local setup: the configuration
file, the event templates, the signing key, the nak binary, and each
configured relay.

Each check prints a pass/fail line; the command exits non-zero if any
check fails.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	printer.Header("Doctor")

	cfg, err := config.Load(configPath)
	if err != nil {
		printer.Failure("configuration: %v", err)
		// Nothing else can be checked without a configuration.
		return fmt.Errorf("1 check failed")
	}
	printer.Success("configuration: %s (%d app(s), %d relay(s))", configPath, len(cfg.Apps), len(cfg.Nostr.Relays))

	failed := doctorChecks(ctx, cfg, nak.NewClient(cfg.Nostr.Relays))

	printer.Println()
	if failed > 0 {
		printer.Failure("%d check(s) failed", failed)
		return fmt.Errorf("%d check(s) failed", failed)
	}
	printer.Success("All checks passed")
	return nil
}

// doctorChecks runs every check that needs a loaded configuration and
// returns the number of failures. The relay client is injected so the
// checks can run against a fake runner in tests.
func doctorChecks(ctx context.Context, cfg *config.Config, relay *nak.Client) int {
	failed := 0

	for _, path := range []string{cfg.Templates.Assertion, cfg.Templates.Attestation} {
		if _, err := template.Load(path); err != nil {
			printer.Failure("template %s: %v", path, err)
			failed++
		} else {
			printer.Success("template %s", path)
		}
	}

	if cfg.Nostr.SecretKey == "" {
		printer.Warning("no signing key configured (set nostr.nsec or %s); only --dry-run will work", config.SecretKeyEnv)
	} else {
		printer.Success("signing key configured")
	}

	if _, err := os.Stat(cfg.StateFile); err != nil {
		printer.Info("state file %s does not exist yet (treated as empty)\n", cfg.StateFile)
	} else {
		printer.Success("state file %s", cfg.StateFile)
	}

	nakVersion, err := relay.Version(ctx)
	if err != nil {
		printer.Failure("nak: %v", err)
		failed++
	} else {
		printer.Success("nak %s", nakVersion)

		if cfg.Nostr.SecretKey != "" {
			if pubkey, err := relay.PublicKey(ctx, cfg.Nostr.SecretKey); err != nil {
				printer.Failure("signing key: %v", err)
				failed++
			} else {
				printer.Success("signing key derives pubkey %s", pubkey)
			}
		}

		for _, r := range cfg.Nostr.Relays {
			if err := relay.Probe(ctx, r); err != nil {
				printer.Failure("relay %s: %v", r, err)
				failed++
			} else {
				printer.Success("relay %s reachable", r)
			}
		}
	}

	return failed
}
