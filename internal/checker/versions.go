package checker

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Latest returns the newest of the given versions by semantic-version
// precedence. Plain lexicographic comparison would rank "1.2.0" above
// "1.10.0"; semver comparison is used whenever both sides parse as a
// semantic version, with lexicographic order as the fallback for version
// strings that don't.
func Latest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	latest := versions[0]
	for _, v := range versions[1:] {
		if compareVersions(v, latest) > 0 {
			latest = v
		}
	}
	return latest
}

func compareVersions(a, b string) int {
	ca := "v" + strings.TrimPrefix(a, "v")
	cb := "v" + strings.TrimPrefix(b, "v")
	if semver.IsValid(ca) && semver.IsValid(cb) {
		if cmp := semver.Compare(ca, cb); cmp != 0 {
			return cmp
		}
		// Equal precedence (e.g. build metadata differences): fall back
		// to string order so the result is still deterministic.
	}
	return strings.Compare(a, b)
}
