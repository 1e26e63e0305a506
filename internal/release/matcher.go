// Package release selects the release record corresponding to a target
// version from the candidates published under an app definition.
package release

import (
	"strings"

	"github.com/vouchrb/vouch/pkg/nostr"
)

// Match returns the first release record (in input order) that matches the
// target version, or nil when none does.
//
// Rules are evaluated per record, in order; the first matching rule for
// the first matching record wins:
//
//  1. commit tag equals the version exactly
//  2. version tag equals the version exactly
//  3. d tag contains "@<version>" or "v<version>"
//  4. content contains the version as a substring
func Match(records []nostr.Event, version string) *nostr.Event {
	for i := range records {
		if matches(&records[i], version) {
			return &records[i]
		}
	}
	return nil
}

func matches(record *nostr.Event, version string) bool {
	tags := record.TagMap()

	if tags["commit"] == version {
		return true
	}
	if tags["version"] == version {
		return true
	}
	if d := tags["d"]; d != "" {
		if strings.Contains(d, "@"+version) || strings.Contains(d, "v"+version) {
			return true
		}
	}
	return strings.Contains(record.Content, version)
}
