package nostr

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Serialize returns the canonical byte form of the event's signable fields:
//
//	[0,<pubkey>,<created_at>,<kind>,<tags>,<content>]
//
// with no whitespace and the network's restricted string escaping. ID and
// Sig never appear in the serialization, so their presence or value cannot
// affect the result. A nil tag list serializes as [].
func (e *Event) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteString("[0,")
	writeEscapedString(&buf, e.Pubkey)
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatInt(e.CreatedAt, 10))
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(e.Kind))
	buf.WriteByte(',')
	buf.WriteByte('[')
	for i, tag := range e.Tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, item := range tag {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeEscapedString(&buf, item)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	buf.WriteByte(',')
	writeEscapedString(&buf, e.Content)
	buf.WriteByte(']')
	return buf.Bytes()
}

// ComputeID returns the event's identifier: the lowercase hex SHA-256
// digest of Serialize(). Calling it twice on equal signable fields always
// yields the same digest.
func (e *Event) ComputeID() string {
	sum := sha256.Sum256(e.Serialize())
	return hex.EncodeToString(sum[:])
}

// writeEscapedString writes s as a JSON string using only the escapes the
// network's canonical form permits: \" \\ \b \t \n \f \r, \u00XX for the
// remaining control characters, and raw UTF-8 for everything else.
// encoding/json would additionally escape <, > and &, which is why this is
// hand-rolled.
func writeEscapedString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\t':
			buf.WriteString(`\t`)
		case '\n':
			buf.WriteString(`\n`)
		case '\f':
			buf.WriteString(`\f`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if c < 0x20 {
				const hexdig = "0123456789abcdef"
				buf.WriteString(`\u00`)
				buf.WriteByte(hexdig[c>>4])
				buf.WriteByte(hexdig[c&0xf])
			} else {
				buf.WriteByte(c)
			}
		}
	}
	buf.WriteByte('"')
}
