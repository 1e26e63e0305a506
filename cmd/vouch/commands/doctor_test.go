package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchrb/vouch/internal/config"
	"github.com/vouchrb/vouch/internal/nak"
)

// fakeNakRunner maps the last argument of each invocation (relay URL,
// secret key, or flag) to canned output or an error.
type fakeNakRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeNakRunner) Run(ctx context.Context, args ...string) (string, error) {
	key := args[len(args)-1]
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func doctorConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	tmpl := []byte(`{"kind": 3063, "content": "{{app_id}}", "tags": [["d", "{{app_id}}"]]}`)
	assertionPath := filepath.Join(dir, "assertion.json")
	attestationPath := filepath.Join(dir, "attestation.json")
	require.NoError(t, os.WriteFile(assertionPath, tmpl, 0o644))
	require.NoError(t, os.WriteFile(attestationPath, tmpl, 0o644))

	return &config.Config{
		Nostr: config.NostrConfig{
			SecretKey: "nsec1test",
			Relays:    []string{"wss://relay.one", "wss://relay.two"},
		},
		Apps: map[string]config.AppConfig{
			"org.example.app": {ZapstoreAppID: "org.example.app"},
		},
		Templates: config.TemplatesConfig{Assertion: assertionPath, Attestation: attestationPath},
		StateFile: filepath.Join(dir, "state.json"),
	}
}

func TestDoctorChecks_AllPassing(t *testing.T) {
	cfg := doctorConfig(t)
	runner := &fakeNakRunner{outputs: map[string]string{
		"--version":       "nak v0.7.0",
		"nsec1test":       "pubkeyhex",
		"wss://relay.one": "",
		"wss://relay.two": "",
	}}

	relay := nak.NewClientWithRunner(runner, cfg.Nostr.Relays)
	assert.Equal(t, 0, doctorChecks(context.Background(), cfg, relay))
}

func TestDoctorChecks_UnreachableRelayFails(t *testing.T) {
	cfg := doctorConfig(t)
	runner := &fakeNakRunner{
		outputs: map[string]string{
			"--version":       "nak v0.7.0",
			"nsec1test":       "pubkeyhex",
			"wss://relay.one": "",
		},
		errs: map[string]error{
			"wss://relay.two": &nak.ExternalError{Op: "req", Err: errors.New("connection refused")},
		},
	}

	relay := nak.NewClientWithRunner(runner, cfg.Nostr.Relays)
	assert.Equal(t, 1, doctorChecks(context.Background(), cfg, relay))
}

func TestDoctorChecks_MissingNakFailsOnce(t *testing.T) {
	cfg := doctorConfig(t)
	runner := &fakeNakRunner{errs: map[string]error{
		"--version": &nak.ExternalError{Op: "nak", Err: errors.New("nak not found in PATH")},
	}}

	// Without the binary the key and relay checks cannot run; only the
	// binary check counts as failed.
	relay := nak.NewClientWithRunner(runner, cfg.Nostr.Relays)
	assert.Equal(t, 1, doctorChecks(context.Background(), cfg, relay))
}

func TestDoctorChecks_MissingTemplateFails(t *testing.T) {
	cfg := doctorConfig(t)
	cfg.Templates.Assertion = filepath.Join(t.TempDir(), "missing.json")
	runner := &fakeNakRunner{outputs: map[string]string{
		"--version":       "nak v0.7.0",
		"nsec1test":       "pubkeyhex",
		"wss://relay.one": "",
		"wss://relay.two": "",
	}}

	relay := nak.NewClientWithRunner(runner, cfg.Nostr.Relays)
	assert.Equal(t, 1, doctorChecks(context.Background(), cfg, relay))
}
