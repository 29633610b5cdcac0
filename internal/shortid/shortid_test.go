package shortid

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]+$`)

func testHeaders() HeaderSnapshot {
	return HeaderSnapshot{
		ContentType:    "application/x-www-form-urlencoded",
		ContentLength:  "42",
		Host:           "shorty.local",
		AcceptEncoding: "gzip",
		Accept:         "text/html",
	}
}

func TestGenerate_Shape(t *testing.T) {
	id := Generate(time.Now(), "http://example.com/page?x=1", testHeaders())

	assert.Len(t, id.ContentHash, 64)
	assert.Regexp(t, hexRe, id.ContentHash)

	assert.Len(t, id.ShortCode, ShortCodeLength)
	assert.Regexp(t, hexRe, id.ShortCode)
	assert.Equal(t, id.ContentHash[:ShortCodeLength], id.ShortCode)

	assert.Len(t, id.HeaderSnapshotHash, 64)
	assert.Regexp(t, hexRe, id.HeaderSnapshotHash)

	require.NotEmpty(t, id.GlobalID)
	assert.Len(t, id.GlobalID, 36)
}

func TestGenerate_DeterministicContentHash(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	a := Generate(ts, "http://example.com", testHeaders())
	b := Generate(ts, "http://example.com", testHeaders())

	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, a.ShortCode, b.ShortCode)
	assert.Equal(t, a.HeaderSnapshotHash, b.HeaderSnapshotHash)
	// the global id is random even for identical input
	assert.NotEqual(t, a.GlobalID, b.GlobalID)
}

func TestGenerate_TimestampSeparatesSubmissions(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	a := Generate(ts, "http://example.com", testHeaders())
	b := Generate(ts.Add(time.Nanosecond), "http://example.com", testHeaders())

	assert.NotEqual(t, a.ContentHash, b.ContentHash)
	assert.NotEqual(t, a.ShortCode, b.ShortCode)
}

func TestGenerate_URLChangesHash(t *testing.T) {
	ts := time.Now()

	a := Generate(ts, "http://example.com/a", testHeaders())
	b := Generate(ts, "http://example.com/b", testHeaders())

	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func TestGenerate_HeadersChangeFingerprintOnly(t *testing.T) {
	ts := time.Now()
	other := testHeaders()
	other.Accept = "application/json"

	a := Generate(ts, "http://example.com", testHeaders())
	b := Generate(ts, "http://example.com", other)

	assert.NotEqual(t, a.HeaderSnapshotHash, b.HeaderSnapshotHash)
	assert.Equal(t, a.ContentHash, b.ContentHash)
}
