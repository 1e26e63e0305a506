// Package state persists which app versions have already been attested,
// so a version is never reported twice.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vouchrb/vouch/internal/rblog"
)

// VersionStatus records the outcome for one (app, version) pair.
type VersionStatus struct {
	Checked bool   `json:"checked"`
	EventID string `json:"event_id"`
}

// State maps app identifier → version → status. It is loaded once at
// process start, mutated in memory as versions succeed, and saved once at
// process end. Entries are only ever added or overwritten, never removed.
type State map[string]map[string]VersionStatus

// Load reads the state document from path. A missing file is a fresh
// start, not an error.
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if s == nil {
		s = State{}
	}
	return s, nil
}

// Save writes the state document to path, via a temp file and rename so a
// crash mid-write cannot corrupt the previous state.
func (s State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Diff returns the versions present in the log and absent from the app's
// state, sorted lexicographically for deterministic processing. An app
// with no state entry yields every version in the log.
//
// Note the sort is plain string order: "1.10.0" comes before "1.2.0".
// Iteration order is deterministic, not semantic.
func (s State) Diff(appID string, current rblog.VersionLog) []string {
	seen := s[appID]

	var fresh []string
	for version := range current {
		if _, ok := seen[version]; !ok {
			fresh = append(fresh, version)
		}
	}
	sort.Strings(fresh)
	return fresh
}

// MarkChecked records a successfully attested version and the identifier
// of its published assertion event.
func (s State) MarkChecked(appID, version, eventID string) {
	if s[appID] == nil {
		s[appID] = make(map[string]VersionStatus)
	}
	s[appID][version] = VersionStatus{Checked: true, EventID: eventID}
}
