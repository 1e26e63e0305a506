package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTable(t *testing.T) {
	s := State{
		"org.example.app": {
			"1.2.0":  {Checked: true, EventID: strings.Repeat("ab", 32)},
			"1.10.0": {Checked: true, EventID: "short"},
		},
		"org.another.app": {
			"2.0.0": {Checked: true},
		},
	}

	var buf strings.Builder
	rows := FormatTable(&buf, s)
	assert.Equal(t, 3, rows)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// Header, divider, three rows, blank, count.
	assert.Contains(t, lines[0], "APP")
	assert.Contains(t, lines[2], "org.another.app")
	assert.Contains(t, lines[3], "1.10.0")
	assert.Contains(t, lines[4], "1.2.0")
	assert.Contains(t, out, "abababababababab", "long event ids are shortened")
	assert.NotContains(t, out, strings.Repeat("ab", 32))
	assert.Contains(t, out, "3 attested versions")
}

func TestFormatTable_Empty(t *testing.T) {
	var buf strings.Builder
	rows := FormatTable(&buf, State{})
	assert.Equal(t, 0, rows)
	assert.Contains(t, buf.String(), "No attested versions")
}

func TestFormatJSONL(t *testing.T) {
	s := State{
		"org.example.app": {
			"1.2.0": {Checked: true, EventID: "ev1"},
		},
	}

	var buf strings.Builder
	require.NoError(t, FormatJSONL(&buf, s))
	assert.Equal(t,
		`{"app_id":"org.example.app","version":"1.2.0","checked":true,"event_id":"ev1"}`+"\n",
		buf.String())
}
