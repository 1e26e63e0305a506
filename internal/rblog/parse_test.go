package rblog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog_InvertsHashMapping(t *testing.T) {
	raw := []byte(`{
		"appid": "org.fossify.calendar",
		"sha256": {
			"hash1": ["1.0.3"],
			"hash2": ["1.1.0", "1.1.1"]
		},
		"version_codes": {"1.0.3": 3},
		"tags": {}
	}`)

	log, err := ParseLog(raw)
	require.NoError(t, err)
	assert.Equal(t, "org.fossify.calendar", log.AppID)
	assert.Equal(t, []string{"hash1"}, log.Versions["1.0.3"])
	assert.Equal(t, []string{"hash2"}, log.Versions["1.1.0"])
	assert.Equal(t, []string{"hash2"}, log.Versions["1.1.1"])
}

func TestParseLog_MultipleHashesPerVersionKeepDocumentOrder(t *testing.T) {
	// Two distinct builds declared the same version. Both hashes are kept,
	// in the order they appear in the document, and FirstHash is stable.
	raw := []byte(`{"sha256": {
		"zzz-first": ["2.0.0"],
		"aaa-second": ["2.0.0"]
	}}`)

	log, err := ParseLog(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz-first", "aaa-second"}, log.Versions["2.0.0"])
	assert.Equal(t, "zzz-first", log.Versions.FirstHash("2.0.0"))
}

func TestParseLog_MissingSHA256Field(t *testing.T) {
	log, err := ParseLog([]byte(`{"appid": "org.example.app"}`))
	require.NoError(t, err)
	assert.Empty(t, log.Versions)
}

func TestParseLog_EmptyDocument(t *testing.T) {
	log, err := ParseLog(nil)
	require.NoError(t, err)
	assert.Empty(t, log.Versions)

	log, err = ParseLog([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, log.Versions)
}

func TestParseLog_Invalid(t *testing.T) {
	_, err := ParseLog([]byte(`["not", "an", "object"]`))
	assert.Error(t, err)

	_, err = ParseLog([]byte(`{"sha256": ["not", "an", "object"]}`))
	assert.Error(t, err)

	_, err = ParseLog([]byte(`{"sha256": {"h": "not-a-list"}}`))
	assert.Error(t, err)
}

func TestSortedVersions(t *testing.T) {
	v := VersionLog{"1.2.0": {"a"}, "1.10.0": {"b"}, "0.9.0": {"c"}}
	// Lexicographic: "1.10.0" sorts before "1.2.0".
	assert.Equal(t, []string{"0.9.0", "1.10.0", "1.2.0"}, v.SortedVersions())
}

func TestFirstHash_UnknownVersion(t *testing.T) {
	assert.Equal(t, "", VersionLog{}.FirstHash("1.0.0"))
}
