package nostr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event kinds consumed and produced by vouch. The query-side kinds are
// protocol constants; the kinds of published events are defined by the
// loaded templates, never hardcoded.
const (
	// KindAppDefinition is the addressable app definition record,
	// keyed by a d tag holding the app identifier.
	KindAppDefinition = 32267

	// KindRelease is the addressable release record, linked to its app
	// definition via an a tag coordinate.
	KindRelease = 30063
)

// Event represents a single event-network record. Tags is an ordered list
// of ordered string lists; the first element of each tag is its name.
//
// ID and Sig are populated by the network or the external signer. They are
// never inputs to identifier computation.
type Event struct {
	ID        string     `json:"id,omitempty"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig,omitempty"`
}

// TagValue returns the value of the first tag with the given name, or ""
// if no such tag exists or the tag has no value element.
func (e *Event) TagValue(name string) string {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

// TagMap builds a name→value map from the event's tags. A repeated tag
// name keeps its last occurrence, as if each tag were assigned in order.
// Build it once per event when several lookups are needed instead of
// rescanning the tag list.
func (e *Event) TagMap() map[string]string {
	m := make(map[string]string, len(e.Tags))
	for _, tag := range e.Tags {
		if len(tag) >= 2 {
			m[tag[0]] = tag[1]
		}
	}
	return m
}

// Validate checks that the event is well-formed enough to identify and
// publish. It does not verify signatures.
func (e *Event) Validate() error {
	if e.Kind < 0 {
		return fmt.Errorf("invalid kind: %d", e.Kind)
	}
	if e.CreatedAt < 0 {
		return fmt.Errorf("invalid created_at: %d", e.CreatedAt)
	}
	for i, tag := range e.Tags {
		if len(tag) == 0 {
			return fmt.Errorf("tag %d is empty", i)
		}
	}
	return nil
}

// ParseEvents decodes newline-delimited JSON event objects, the output
// format of the external query tool. Lines that are blank or fail to parse
// as an event are skipped, matching the tool's occasionally noisy output.
func ParseEvents(ndjson string) []Event {
	var events []Event
	for _, line := range strings.Split(ndjson, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Coordinate is a composite reference to an addressable record:
// kind, author pubkey and the record's d-tag identifier.
type Coordinate struct {
	Kind       int
	Pubkey     string
	Identifier string
}

// String renders the coordinate in its wire form "kind:pubkey:identifier".
func (c Coordinate) String() string {
	return fmt.Sprintf("%d:%s:%s", c.Kind, c.Pubkey, c.Identifier)
}

// ParseCoordinate parses a wire-form coordinate. The identifier part may
// itself contain colons, so only the first two separators split.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want kind:pubkey:identifier", s)
	}
	kind, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate kind %q: %w", parts[0], err)
	}
	return Coordinate{Kind: kind, Pubkey: parts[1], Identifier: parts[2]}, nil
}
