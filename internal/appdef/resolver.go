// Package appdef resolves an app identifier to its authoritative app
// definition record on the event network.
package appdef

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vouchrb/vouch/pkg/nostr"
)

// Querier is the relay capability the resolver depends on. One query per
// configured relay endpoint, candidates deduplicated by event id; when
// pubkey is non-empty the query is already filtered to that author.
type Querier interface {
	AppDefinitions(ctx context.Context, appID, pubkey string) ([]nostr.Event, error)
}

// NotFoundError indicates no app definition exists for the identifier on
// any configured relay.
type NotFoundError struct {
	AppID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("app definition not found for '%s' on configured relays", e.AppID)
}

// IsNotFound returns true if the error is a missing-definition error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AmbiguousError indicates several app definitions share the identifier
// under different signing identities. The full candidate list is carried
// so the operator can pick one; the resolver never picks for them.
type AmbiguousError struct {
	AppID      string
	Candidates []nostr.Event
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "found %d app definitions for '%s':\n", len(e.Candidates), e.AppID)
	for i, c := range e.Candidates {
		name := c.TagValue("name")
		if name == "" {
			name = e.AppID
		}
		fmt.Fprintf(&b, "  %d. %s (event %s, pubkey %s)\n", i+1, name, c.ID, c.Pubkey)
	}
	b.WriteString("set 'zapstore_pubkey' in the app's configuration to select one")
	return b.String()
}

// IsAmbiguous returns true if the error is an ambiguous-definition error.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}

// Resolve queries for all definitions matching appID and applies the
// selection policy:
//
//	0 candidates            → NotFoundError
//	1 candidate             → that definition
//	2+ without pubkey       → AmbiguousError listing every candidate
//	2+ despite pubkey       → internal-consistency error (the query should
//	                          have filtered by author already)
//
// Multiplicity is never resolved by recency or any other heuristic:
// attesting under the wrong signing identity is worse than not attesting.
func Resolve(ctx context.Context, q Querier, appID, pubkey string) (*nostr.Event, error) {
	candidates, err := q.AppDefinitions(ctx, appID, pubkey)
	if err != nil {
		return nil, fmt.Errorf("failed to query app definitions for '%s': %w", appID, err)
	}

	switch {
	case len(candidates) == 0:
		return nil, &NotFoundError{AppID: appID}
	case len(candidates) == 1:
		def := candidates[0]
		return &def, nil
	case pubkey != "":
		return nil, fmt.Errorf("query for '%s' returned %d definitions despite pubkey filter %s; refusing to pick one",
			appID, len(candidates), pubkey)
	default:
		return nil, &AmbiguousError{AppID: appID, Candidates: candidates}
	}
}
