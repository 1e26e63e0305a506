package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchrb/vouch/pkg/nostr"
)

func record(id string, content string, tags ...[]string) nostr.Event {
	return nostr.Event{ID: id, Kind: nostr.KindRelease, Content: content, Tags: tags}
}

func TestMatch_CommitTag(t *testing.T) {
	records := []nostr.Event{
		record("e1", "", []string{"commit", "1.2.0"}),
	}
	got := Match(records, "1.2.0")
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)
}

func TestMatch_CommitRuleWinsOverVersionRule(t *testing.T) {
	// A record with a matching commit tag and a non-matching version tag
	// still matches: rule 1 is checked before rule 2.
	records := []nostr.Event{
		record("e1", "", []string{"commit", "1.2.0"}, []string{"version", "9.9.9"}),
	}
	got := Match(records, "1.2.0")
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)
}

func TestMatch_VersionTag(t *testing.T) {
	records := []nostr.Event{
		record("e1", "", []string{"version", "1.2.0"}),
	}
	require.NotNil(t, Match(records, "1.2.0"))
	assert.Nil(t, Match(records, "1.2"))
}

func TestMatch_DTagPatterns(t *testing.T) {
	t.Run("at-version form", func(t *testing.T) {
		records := []nostr.Event{
			record("e1", "", []string{"d", "org.example.app@1.2.0"}),
		}
		require.NotNil(t, Match(records, "1.2.0"))
	})

	t.Run("v-prefix form", func(t *testing.T) {
		records := []nostr.Event{
			record("e1", "", []string{"d", "org.example.app-v1.2.0"}),
		}
		require.NotNil(t, Match(records, "1.2.0"))
	})

	t.Run("d tag without version does not match", func(t *testing.T) {
		records := []nostr.Event{
			record("e1", "", []string{"d", "org.example.app@2.0.0"}),
		}
		assert.Nil(t, Match(records, "1.2.0"))
	})
}

func TestMatch_ContentSubstring(t *testing.T) {
	records := []nostr.Event{
		record("e1", "Release notes for 1.2.0: bug fixes"),
	}
	require.NotNil(t, Match(records, "1.2.0"))
}

func TestMatch_FirstRecordWins(t *testing.T) {
	records := []nostr.Event{
		record("first", "version 1.2.0 mentioned in prose"),
		record("second", "", []string{"commit", "1.2.0"}),
	}
	// Rules are evaluated per record in list order, not globally: the
	// first record matches via the content rule before the second is seen.
	got := Match(records, "1.2.0")
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestMatch_NoMatch(t *testing.T) {
	records := []nostr.Event{
		record("e1", "nothing relevant", []string{"commit", "2.0.0"}),
	}
	assert.Nil(t, Match(records, "1.2.0"))
	assert.Nil(t, Match(nil, "1.2.0"))
}

func TestMatch_RepeatedTagKeepsLastValue(t *testing.T) {
	records := []nostr.Event{
		record("e1", "", []string{"commit", "0.9.0"}, []string{"commit", "1.2.0"}),
	}

	got := Match(records, "1.2.0")
	require.NotNil(t, got)

	assert.Nil(t, Match(records, "0.9.0"))
}
