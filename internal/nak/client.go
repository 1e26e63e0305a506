package nak

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vouchrb/vouch/pkg/nostr"
)

// Client issues queries and publish calls through the external tool
// against a fixed relay set.
type Client struct {
	runner Runner
	relays []string
}

// NewClient creates a client executing the real nak binary.
func NewClient(relays []string) *Client {
	return &Client{runner: NewExecRunner(), relays: relays}
}

// NewClientWithRunner creates a client with an injected runner, for tests.
func NewClientWithRunner(runner Runner, relays []string) *Client {
	return &Client{runner: runner, relays: relays}
}

// Version reports the installed nak version, verifying the binary exists.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Probe issues a minimal query against a single relay, verifying it is
// reachable and answering requests.
func (c *Client) Probe(ctx context.Context, relay string) error {
	_, err := c.runner.Run(ctx, "req", "--limit", "1", "-k", strconv.Itoa(nostr.KindAppDefinition), relay)
	return err
}

// PublicKey derives the public key for a secret key via the external tool.
// Keys never touch this process beyond being passed through.
func (c *Client) PublicKey(ctx context.Context, secretKey string) (string, error) {
	out, err := c.runner.Run(ctx, "key", "public", secretKey)
	if err != nil {
		return "", err
	}
	pubkey := strings.TrimSpace(out)
	if pubkey == "" {
		return "", fmt.Errorf("nak returned an empty public key")
	}
	return pubkey, nil
}

// AppDefinitions queries every configured relay for app definition records
// with the given d-tag identifier, optionally filtered by author, and
// returns them deduplicated by event id. Relays that fail are skipped; the
// last relay error is returned only when no relay produced a result.
func (c *Client) AppDefinitions(ctx context.Context, appID, pubkey string) ([]nostr.Event, error) {
	seen := make(map[string]bool)
	var defs []nostr.Event
	var lastErr error

	for _, relay := range c.relays {
		args := []string{"req", "-k", strconv.Itoa(nostr.KindAppDefinition), "-d", appID}
		if pubkey != "" {
			args = append(args, "--author", pubkey)
		}
		args = append(args, relay)

		out, err := c.runner.Run(ctx, args...)
		if err != nil {
			lastErr = err
			continue
		}

		for _, ev := range nostr.ParseEvents(out) {
			if ev.Kind != nostr.KindAppDefinition || ev.TagValue("d") != appID {
				continue
			}
			if pubkey != "" && ev.Pubkey != pubkey {
				continue
			}
			if !seen[ev.ID] {
				seen[ev.ID] = true
				defs = append(defs, ev)
			}
		}
	}

	if len(defs) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return defs, nil
}

// Releases queries release records referencing the app definition
// coordinate. The query goes to the relay that hosts release records when
// one is configured (recognized by name), otherwise the first relay.
func (c *Client) Releases(ctx context.Context, coord nostr.Coordinate) ([]nostr.Event, error) {
	if len(c.relays) == 0 {
		return nil, fmt.Errorf("no relays configured")
	}

	relay := c.relays[0]
	for _, r := range c.relays {
		if strings.Contains(r, "zapstore") {
			relay = r
			break
		}
	}

	out, err := c.runner.Run(ctx, "req", "-k", strconv.Itoa(nostr.KindRelease), "-t", "a="+coord.String(), relay)
	if err != nil {
		return nil, err
	}

	var releases []nostr.Event
	for _, ev := range nostr.ParseEvents(out) {
		if ev.Kind == nostr.KindRelease {
			releases = append(releases, ev)
		}
	}
	return releases, nil
}

// Publish signs and publishes an event to every configured relay and
// returns the identifier reported by the tool. The event's own ID field is
// not sent; the tool recomputes it from the signable fields.
func (c *Client) Publish(ctx context.Context, secretKey string, ev *nostr.Event) (string, error) {
	args := []string{
		"event", "--quiet",
		"--sec", secretKey,
		"--kind", strconv.Itoa(ev.Kind),
		"--content", ev.Content,
	}
	for _, tag := range ev.Tags {
		if len(tag) >= 2 {
			args = append(args, "--tag", tag[0]+"="+tag[1])
		}
	}
	args = append(args, c.relays...)

	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
