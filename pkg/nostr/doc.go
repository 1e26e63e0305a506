// Package nostr provides type-safe Go definitions for the event-network
// records that vouch produces and consumes.
//
// # Overview
//
// Every record on the network is an Event: a pubkey, a creation timestamp,
// an integer kind, an ordered list of tags and a content string, identified
// by the SHA-256 digest of its canonical serialization. Vouch reads two
// well-known kinds (app definitions and releases) and publishes two
// template-defined kinds (assertions and attestations).
//
// # Identifiers
//
// An event's identifier is a pure function of its five signable fields:
//
//	sha256("[0,<pubkey>,<created_at>,<kind>,<tags>,<content>]")
//
// serialized without whitespace and with the network's restricted string
// escaping. Any id or sig already present on the event is ignored. The
// serializer is hand-rolled because encoding/json HTML-escapes and
// \u-escapes characters the network serializes raw, which would change the
// digest and make every identifier invalid to a compliant verifier.
//
// # Coordinates
//
// Addressable records are referenced by a coordinate kind:pubkey:identifier
// rather than by event id, so a reference survives the record being
// republished. Vouch uses coordinates both to query releases belonging to
// an app definition and to link assertions to the release they attest to.
//
// # Design Principles
//
//   - Determinism: identical signable fields always produce identical ids
//   - No signing: keys never enter this package; signatures come from the
//     external publishing tool
//   - Minimal dependencies: standard library only
package nostr
