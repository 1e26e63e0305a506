package state

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// FormatTable writes the attested versions as a formatted table.
// Rows are ordered by app id, then version, so output is stable.
// Returns the number of rows written.
func FormatTable(w io.Writer, s State) int {
	if len(s) == 0 {
		fmt.Fprintln(w, "No attested versions recorded")
		return 0
	}

	fmt.Fprintf(w, "%-32s %-14s %s\n", "APP", "VERSION", "ASSERTION")
	fmt.Fprintf(w, "%-32s %-14s %s\n",
		"--------------------------------", "--------------", "----------------")

	apps := make([]string, 0, len(s))
	for app := range s {
		apps = append(apps, app)
	}
	sort.Strings(apps)

	rows := 0
	for _, app := range apps {
		versions := make([]string, 0, len(s[app]))
		for version := range s[app] {
			versions = append(versions, version)
		}
		sort.Strings(versions)

		for _, version := range versions {
			fmt.Fprintf(w, "%-32s %-14s %s\n", app, version, formatEventID(s[app][version].EventID))
			rows++
		}
	}

	rowMsg := "version"
	if rows != 1 {
		rowMsg = "versions"
	}
	fmt.Fprintf(w, "\n%d attested %s\n", rows, rowMsg)

	return rows
}

// FormatJSONL writes one attested version per line as compact JSON, for
// piping into jq and friends.
func FormatJSONL(w io.Writer, s State) error {
	apps := make([]string, 0, len(s))
	for app := range s {
		apps = append(apps, app)
	}
	sort.Strings(apps)

	for _, app := range apps {
		versions := make([]string, 0, len(s[app]))
		for version := range s[app] {
			versions = append(versions, version)
		}
		sort.Strings(versions)

		for _, version := range versions {
			line := struct {
				AppID   string `json:"app_id"`
				Version string `json:"version"`
				Checked bool   `json:"checked"`
				EventID string `json:"event_id"`
			}{app, version, s[app][version].Checked, s[app][version].EventID}

			data, err := json.Marshal(line)
			if err != nil {
				return fmt.Errorf("failed to marshal state entry: %w", err)
			}
			if _, err := fmt.Fprintln(w, string(data)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatEventID shortens event ids to a recognizable prefix.
func formatEventID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 16 {
		return id[:16]
	}
	return id
}
