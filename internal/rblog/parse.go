// Package rblog fetches and parses reproducible-build logs published by
// the IzzyOnDroid rbtlog repository.
package rblog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// VersionLog maps a declared version string to the content hashes recorded
// for it. A version may carry several hashes (distinct builds declaring the
// same version); all are preserved in document order and the first one is
// the deterministic choice when a single hash is needed.
type VersionLog map[string][]string

// Log is a parsed reproducible-build log document.
type Log struct {
	AppID    string
	Versions VersionLog
}

// SortedVersions returns the log's version strings in lexicographic order.
func (v VersionLog) SortedVersions() []string {
	versions := make([]string, 0, len(v))
	for version := range v {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions
}

// FirstHash returns the first recorded hash for a version, or "" when the
// version is unknown.
func (v VersionLog) FirstHash(version string) string {
	if hashes := v[version]; len(hashes) > 0 {
		return hashes[0]
	}
	return ""
}

// ParseLog parses a raw log document into its inverted version→hashes form.
// The document's sha256 field maps hash → list of versions; the inversion
// preserves every hash under every version it is listed for, without
// deduplication, appending in document order. An empty document or one
// without a sha256 field yields an empty mapping and no error; the caller
// treats that as "no versions known".
//
// The sha256 object is walked with a token decoder rather than unmarshalled
// into a map, because map iteration order would make "first hash" vary
// between runs.
func ParseLog(raw []byte) (*Log, error) {
	log := &Log{Versions: VersionLog{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return log, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid log document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("invalid log document: expected a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid log document: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid log document: non-string key")
		}

		switch key {
		case "appid":
			if err := dec.Decode(&log.AppID); err != nil {
				return nil, fmt.Errorf("invalid appid field: %w", err)
			}
		case "sha256":
			if err := parseSHA256(dec, log.Versions); err != nil {
				return nil, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("invalid log document: %w", err)
			}
		}
	}

	return log, nil
}

// parseSHA256 consumes the sha256 object from the decoder, appending each
// hash to every version it declares, preserving document order.
func parseSHA256(dec *json.Decoder, versions VersionLog) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid sha256 field: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("invalid sha256 field: expected a JSON object")
	}

	for dec.More() {
		hashTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid sha256 field: %w", err)
		}
		hash, ok := hashTok.(string)
		if !ok {
			return fmt.Errorf("invalid sha256 field: non-string hash key")
		}

		var declared []string
		if err := dec.Decode(&declared); err != nil {
			return fmt.Errorf("invalid version list for hash %s: %w", hash, err)
		}
		for _, version := range declared {
			versions[version] = append(versions[version], hash)
		}
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid sha256 field: %w", err)
	}
	return nil
}
