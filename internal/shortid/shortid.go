// Package shortid derives the stable identifiers attached to every mapping:
// the full content hash, the public short code and the header snapshot
// fingerprint.
package shortid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShortCodeLength is the number of hex characters exposed in redirect URLs.
const ShortCodeLength = 10

// HeaderSnapshot captures the request headers folded into the audit
// fingerprint at creation time.
type HeaderSnapshot struct {
	ContentType    string `json:"content-type"`
	ContentLength  string `json:"content-length"`
	Host           string `json:"host"`
	AcceptEncoding string `json:"accept-encoding"`
	Accept         string `json:"accept"`
}

// render produces the deterministic string representation that gets hashed.
// Field order is fixed; the timestamp comes last, mirroring the snapshot's
// insertion order.
func (s HeaderSnapshot) render(ts time.Time) string {
	return fmt.Sprintf(
		"content-type=%s;content-length=%s;host=%s;accept-encoding=%s;accept=%s;timestamp=%s",
		s.ContentType, s.ContentLength, s.Host, s.AcceptEncoding, s.Accept,
		ts.Format(time.RFC3339Nano),
	)
}

// Identity is the set of identifiers generated for one mapping.
type Identity struct {
	ContentHash        string
	ShortCode          string
	HeaderSnapshotHash string
	GlobalID           string
}

// Generate derives the mapping identity from the normalized URL, the captured
// headers and a timestamp. The content hash is deterministic for identical
// timestamp+URL input; the nanosecond timestamp precision is what keeps two
// submissions of the same URL apart, so callers retry a colliding create once
// with a refreshed timestamp.
func Generate(ts time.Time, longURL string, headers HeaderSnapshot) Identity {
	contentSum := sha256.Sum256([]byte(ts.Format(time.RFC3339Nano) + longURL))
	contentHash := hex.EncodeToString(contentSum[:])

	headerSum := sha256.Sum256([]byte(headers.render(ts)))

	return Identity{
		ContentHash:        contentHash,
		ShortCode:          contentHash[:ShortCodeLength],
		HeaderSnapshotHash: hex.EncodeToString(headerSum[:]),
		GlobalID:           uuid.NewString(),
	}
}
