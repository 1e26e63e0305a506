// Package checker orchestrates the per-app attestation pipeline: resolve
// the app definition, find new versions in the reproducible-build log,
// match each against a release record, and publish a linked pair of
// assertion and attestation events.
package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vouchrb/vouch/internal/appdef"
	"github.com/vouchrb/vouch/internal/config"
	"github.com/vouchrb/vouch/internal/printer"
	"github.com/vouchrb/vouch/internal/rblog"
	"github.com/vouchrb/vouch/internal/release"
	"github.com/vouchrb/vouch/internal/state"
	"github.com/vouchrb/vouch/internal/template"
	"github.com/vouchrb/vouch/pkg/nostr"
)

// LogSource fetches reproducible-build logs.
type LogSource interface {
	Fetch(ctx context.Context, logFile string) (*rblog.Log, error)
}

// RelayClient is the injected event-network capability. Implemented by
// internal/nak; faked in tests so the pipeline runs without a binary or a
// live relay.
type RelayClient interface {
	AppDefinitions(ctx context.Context, appID, pubkey string) ([]nostr.Event, error)
	Releases(ctx context.Context, coord nostr.Coordinate) ([]nostr.Event, error)
	Publish(ctx context.Context, secretKey string, ev *nostr.Event) (string, error)
	PublicKey(ctx context.Context, secretKey string) (string, error)
}

// Engine runs the attestation pipeline. Processing is sequential: one app
// at a time, one version at a time. State is owned by the engine for the
// duration of the run and saved once at the end by the caller.
type Engine struct {
	cfg         *config.Config
	logs        LogSource
	relay       RelayClient
	state       state.State
	assertion   *template.Template
	attestation *template.Template
	dryRun      bool
	now         func() time.Time
}

// NewEngine wires the pipeline. state is mutated in place as versions
// succeed.
func NewEngine(cfg *config.Config, logs LogSource, relay RelayClient, st state.State, assertion, attestation *template.Template, dryRun bool) *Engine {
	return &Engine{
		cfg:         cfg,
		logs:        logs,
		relay:       relay,
		state:       st,
		assertion:   assertion,
		attestation: attestation,
		dryRun:      dryRun,
		now:         time.Now,
	}
}

// State returns the engine's state record for persisting after the run.
func (e *Engine) State() state.State {
	return e.state
}

// Run processes the given apps sequentially and returns the run report.
// Per-app failures are recorded and do not stop the run.
func (e *Engine) Run(ctx context.Context, appIDs []string) *Report {
	report := &Report{RunID: uuid.New().String(), Checked: appIDs}

	for _, appID := range appIDs {
		printer.Header(fmt.Sprintf("Checking %s", appID))

		results, errs := e.checkApp(ctx, appID)
		report.Results = append(report.Results, results...)
		for _, err := range errs {
			printer.Failure("%s: %v", appID, err)
			report.Failures = append(report.Failures, Failure{AppID: appID, Err: err})
		}
	}

	return report
}

// checkApp processes one app. A failing version aborts only itself; later
// versions still run, and results already achieved are kept since their
// state updates are already final.
func (e *Engine) checkApp(ctx context.Context, appID string) ([]Result, []error) {
	appCfg, ok := e.cfg.Apps[appID]
	if !ok {
		return nil, []error{fmt.Errorf("app %s not found in configuration", appID)}
	}

	printer.Step("Resolving app definition '%s'", appCfg.ZapstoreAppID)
	def, err := appdef.Resolve(ctx, e.relay, appCfg.ZapstoreAppID, appCfg.ZapstorePubkey)
	if err != nil {
		return nil, []error{err}
	}
	printer.Detail("definition %s (pubkey %s)", def.ID, def.Pubkey)

	printer.Step("Fetching reproducible-build log")
	log, err := e.logs.Fetch(ctx, e.cfg.LogFileFor(appID))
	if err != nil {
		return nil, []error{err}
	}
	printer.Detail("%d version(s) in log", len(log.Versions))

	if len(log.Versions) == 0 {
		// No versions known is a no-op, not an error.
		printer.Info("No versions found, nothing to do\n")
		return nil, nil
	}

	fresh := e.state.Diff(appID, log.Versions)
	if len(fresh) == 0 {
		printer.Success("All %d version(s) already attested", len(log.Versions))
		return nil, nil
	}

	targets := fresh
	if e.cfg.Mode == config.ModeLatest {
		targets = []string{Latest(fresh)}
	}
	printer.Detail("%d new version(s), processing %v", len(fresh), targets)

	var results []Result
	var errs []error
	for _, version := range targets {
		res, err := e.processVersion(ctx, appID, appCfg, def, log, version)
		if err != nil {
			errs = append(errs, fmt.Errorf("version %s: %w", version, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// processVersion publishes the linked assertion/attestation pair for one
// version. State is updated only after both publishes succeed (or in
// dry-run, after both events are rendered and identified).
func (e *Engine) processVersion(ctx context.Context, appID string, appCfg config.AppConfig, def *nostr.Event, log *rblog.Log, version string) (Result, error) {
	printer.Step("Processing version %s", version)

	// The release query coordinate points at the app definition.
	defCoord := nostr.Coordinate{
		Kind:       nostr.KindAppDefinition,
		Pubkey:     def.Pubkey,
		Identifier: appCfg.ZapstoreAppID,
	}
	releases, err := e.relay.Releases(ctx, defCoord)
	if err != nil {
		return Result{}, err
	}

	rel := release.Match(releases, version)
	if rel == nil {
		return Result{}, &NoReleaseError{AppID: appID, Version: version}
	}

	relIdentifier := rel.TagValue("d")
	if relIdentifier == "" {
		relIdentifier = version
	}
	relCoord := nostr.Coordinate{Kind: rel.Kind, Pubkey: rel.Pubkey, Identifier: relIdentifier}
	printer.Detail("release %s at %s", rel.ID, relCoord)

	hash := log.Versions.FirstHash(version)
	if hash == "" {
		return Result{}, fmt.Errorf("no content hash recorded for version %s", version)
	}

	pubkey, err := e.publisherPubkey(ctx)
	if err != nil {
		return Result{}, err
	}

	// Presence of the hash in the log means the builder reproduced it.
	reproducible := true

	timestamp := e.now().Unix()
	vars := map[string]any{
		"app_id":                   appID,
		"version":                  version,
		"commit_or_tag":            commitOrTag(appCfg.CommitTemplate, version),
		"sha256_hash":              hash,
		"reproducible_status":      fmt.Sprintf("%t", reproducible),
		"architecture":             appCfg.Arch,
		"timestamp":                timestamp,
		"izzy_log_file":            e.cfg.LogFileFor(appID),
		"release_event_id":         rel.ID,
		"release_event_coordinate": relCoord.String(),
	}

	// The assertion comes first; its identifier is an input to the
	// attestation, so ordering here is strict.
	assertion := e.assertion.Render(vars).Event()
	assertion.Pubkey = pubkey
	assertion.CreatedAt = timestamp
	assertion.Tags = append(assertion.Tags, []string{"a", relCoord.String()})
	assertion.ID = assertion.ComputeID()

	if err := e.publish(ctx, "assertion", assertion); err != nil {
		return Result{}, err
	}
	printer.Success("Assertion event %s", assertion.ID)

	attVars := make(map[string]any, len(vars)+3)
	for k, v := range vars {
		attVars[k] = v
	}
	attVars["assertion_event_id"] = assertion.ID
	attVars["npub"] = pubkey
	attVars["validity"] = validity(reproducible)

	attestation := e.attestation.Render(attVars).Event()
	attestation.Pubkey = pubkey
	// Strictly after the assertion, so consumers sorting by timestamp see
	// the causal order.
	attestation.CreatedAt = timestamp + 1
	attestation.ID = attestation.ComputeID()

	if err := e.publish(ctx, "attestation", attestation); err != nil {
		return Result{}, err
	}
	printer.Success("Attestation event %s", attestation.ID)

	e.state.MarkChecked(appID, version, assertion.ID)

	return Result{
		AppID:         appID,
		Version:       version,
		SHA256:        hash,
		AssertionID:   assertion.ID,
		AttestationID: attestation.ID,
	}, nil
}

// publish hands the event to the external publisher, or echoes it in
// dry-run mode.
func (e *Engine) publish(ctx context.Context, label string, ev *nostr.Event) error {
	pretty, _ := json.MarshalIndent(ev, "", "  ")
	printer.Info("%s event:\n%s\n", label, pretty)

	if e.dryRun {
		printer.Info("DRY RUN: %s would be published\n", label)
		return nil
	}

	if _, err := e.relay.Publish(ctx, e.cfg.Nostr.SecretKey, ev); err != nil {
		return fmt.Errorf("failed to publish %s: %w", label, err)
	}
	return nil
}

// publisherPubkey derives the publishing identity. In dry-run mode a
// missing secret key is tolerated; otherwise it is a configuration error.
func (e *Engine) publisherPubkey(ctx context.Context) (string, error) {
	secret := e.cfg.Nostr.SecretKey
	if secret == "" {
		if e.dryRun {
			return "", nil
		}
		return "", fmt.Errorf("no nsec configured; set nostr.nsec or %s (generate one with: nak key gen)", config.SecretKeyEnv)
	}
	return e.relay.PublicKey(ctx, secret)
}

// commitOrTag expands the app's commit template for a version. An empty
// template yields an empty value, matching the original behavior.
func commitOrTag(tmpl, version string) string {
	if tmpl == "" {
		return ""
	}
	return strings.ReplaceAll(tmpl, "{version}", version)
}

func validity(reproducible bool) string {
	if reproducible {
		return "valid"
	}
	return "invalid"
}
