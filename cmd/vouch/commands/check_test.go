package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchrb/vouch/internal/config"
)

func TestSelectApps_DefaultsToAllSorted(t *testing.T) {
	cfg := &config.Config{Apps: map[string]config.AppConfig{
		"org.zulu.app":  {ZapstoreAppID: "org.zulu.app"},
		"org.alpha.app": {ZapstoreAppID: "org.alpha.app"},
	}}

	apps, err := selectApps(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"org.alpha.app", "org.zulu.app"}, apps)
}

func TestSelectApps_ExplicitSelection(t *testing.T) {
	cfg := &config.Config{Apps: map[string]config.AppConfig{
		"org.alpha.app": {ZapstoreAppID: "org.alpha.app"},
		"org.zulu.app":  {ZapstoreAppID: "org.zulu.app"},
	}}

	apps, err := selectApps(cfg, []string{"org.zulu.app"})
	require.NoError(t, err)
	assert.Equal(t, []string{"org.zulu.app"}, apps)
}

func TestSelectApps_UnknownAppRejected(t *testing.T) {
	cfg := &config.Config{Apps: map[string]config.AppConfig{
		"org.alpha.app": {ZapstoreAppID: "org.alpha.app"},
	}}

	_, err := selectApps(cfg, []string{"org.missing.app"})
	assert.Error(t, err)
}
