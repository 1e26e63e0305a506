package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default file locations, relative to the working directory.
const (
	DefaultPath                = "vouch.yml"
	DefaultStatePath           = "state.json"
	DefaultAssertionTemplate   = "templates/assertion.json"
	DefaultAttestationTemplate = "templates/attestation.json"
)

// DefaultLogBaseURL is the Codeberg contents API under which the
// reproducible-build log repository is published.
const DefaultLogBaseURL = "https://codeberg.org/api/v1/repos"

// SecretKeyEnv overrides nostr.nsec when set, so CI runs can keep the
// signing key out of the config file.
const SecretKeyEnv = "VOUCH_NSEC"

// Processing modes for new versions.
const (
	// ModeLatest processes only the newest unprocessed version per run.
	ModeLatest = "latest"

	// ModeAll processes every unprocessed version, oldest key first.
	ModeAll = "all"
)

// Config represents the top-level vouch.yml configuration
type Config struct {
	Nostr     NostrConfig          `yaml:"nostr"`
	Apps      map[string]AppConfig `yaml:"apps"`
	Templates TemplatesConfig      `yaml:"templates,omitempty"`
	StateFile string               `yaml:"state_file,omitempty"`
	Mode      string               `yaml:"mode,omitempty"`
	LogSource LogSourceConfig      `yaml:"log_source,omitempty"`
}

// NostrConfig holds the publishing identity and relay set
type NostrConfig struct {
	SecretKey string   `yaml:"nsec,omitempty"` // overridden by VOUCH_NSEC
	Relays    []string `yaml:"relays"`
}

// AppConfig describes one application to check
type AppConfig struct {
	ZapstoreAppID  string `yaml:"zapstore_appid"`
	ZapstorePubkey string `yaml:"zapstore_pubkey,omitempty"` // disambiguates multiple definitions
	Arch           string `yaml:"arch,omitempty"`
	CommitTemplate string `yaml:"commit_template,omitempty"` // "{version}" placeholder
	LogFile        string `yaml:"log_file,omitempty"`        // defaults to <app id>.json
}

// TemplatesConfig points at the two event template documents
type TemplatesConfig struct {
	Assertion   string `yaml:"assertion,omitempty"`
	Attestation string `yaml:"attestation,omitempty"`
}

// LogSourceConfig overrides the reproducible-build log endpoint
type LogSourceConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Validate performs strict validation on the configuration and applies
// defaults for optional fields.
func (c *Config) Validate() error {
	if len(c.Apps) == 0 {
		return fmt.Errorf("no apps defined")
	}

	for id, app := range c.Apps {
		if err := app.Validate(id); err != nil {
			return err
		}
	}

	if len(c.Nostr.Relays) == 0 {
		return fmt.Errorf("nostr.relays is required (at least one relay URL)")
	}
	for _, relay := range c.Nostr.Relays {
		if !strings.HasPrefix(relay, "wss://") && !strings.HasPrefix(relay, "ws://") {
			return fmt.Errorf("invalid relay URL: %s (must start with wss:// or ws://)", relay)
		}
	}

	switch c.Mode {
	case "":
		c.Mode = ModeLatest
	case ModeLatest, ModeAll:
	default:
		return fmt.Errorf("invalid mode: %s (must be '%s' or '%s')", c.Mode, ModeLatest, ModeAll)
	}

	if c.Templates.Assertion == "" {
		c.Templates.Assertion = DefaultAssertionTemplate
	}
	if c.Templates.Attestation == "" {
		c.Templates.Attestation = DefaultAttestationTemplate
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStatePath
	}
	if c.LogSource.BaseURL == "" {
		c.LogSource.BaseURL = DefaultLogBaseURL
	}
	if c.LogSource.TimeoutSeconds == 0 {
		c.LogSource.TimeoutSeconds = 30
	}
	if c.LogSource.TimeoutSeconds < 0 {
		return fmt.Errorf("log_source.timeout_seconds must be > 0, got %d", c.LogSource.TimeoutSeconds)
	}

	return nil
}

// Validate performs validation on a single app configuration
func (a *AppConfig) Validate(id string) error {
	if a.ZapstoreAppID == "" {
		return fmt.Errorf("app '%s': zapstore_appid is required", id)
	}
	if a.CommitTemplate != "" && !strings.Contains(a.CommitTemplate, "{version}") {
		return fmt.Errorf("app '%s': commit_template must contain '{version}', got %q", id, a.CommitTemplate)
	}
	return nil
}

// Load reads and validates vouch.yml from the specified path.
// The signing key may be supplied via the VOUCH_NSEC environment variable,
// which takes precedence over the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if key := os.Getenv(SecretKeyEnv); key != "" {
		config.Nostr.SecretKey = key
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LogFileFor returns the log file name for an app, defaulting to
// "<app id>.json" when not configured.
func (c *Config) LogFileFor(appID string) string {
	if app, ok := c.Apps[appID]; ok && app.LogFile != "" {
		return app.LogFile
	}
	return appID + ".json"
}
