package urlx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain http",
			raw:      "http://example.com/page",
			expected: "http://example.com/page",
		},
		{
			name:     "https kept",
			raw:      "https://example.com/page",
			expected: "https://example.com/page",
		},
		{
			name:     "uppercase https scheme",
			raw:      "HTTPS://example.com",
			expected: "https://example.com",
		},
		{
			name:     "non-http scheme falls into http bucket",
			raw:      "ftp://example.com/file",
			expected: "http://example.com/file",
		},
		{
			name:     "query keeps its separator",
			raw:      "http://example.com/page?x=1",
			expected: "http://example.com/page?x=1",
		},
		{
			name:     "multiple query params preserved byte for byte",
			raw:      "http://example.com/s?q=a+b&lang=en",
			expected: "http://example.com/s?q=a+b&lang=en",
		},
		{
			name:     "fragment dropped",
			raw:      "http://example.com/page#section",
			expected: "http://example.com/page",
		},
		{
			name:     "empty path stays empty",
			raw:      "http://example.com",
			expected: "http://example.com",
		},
		{
			name:     "host with port",
			raw:      "http://example.com:8080/page",
			expected: "http://example.com:8080/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, comps, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
			require.NotNil(t, comps)
			assert.Contains(t, []string{"http://", "https://"}, comps.Scheme)
			assert.NotEmpty(t, comps.NetLoc)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no scheme", raw: "example.com/page"},
		{name: "bare word", raw: "notaurl"},
		{name: "empty string", raw: ""},
		{name: "scheme only", raw: "http://"},
		{name: "missing protocol", raw: "://example.com"},
		{name: "control character in url", raw: "http://example.com/\x7f\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedURL)
		})
	}
}

func TestNormalize_Components(t *testing.T) {
	_, comps, err := Normalize("https://example.com:443/a/b?x=1&y=2#frag")
	require.NoError(t, err)

	assert.Equal(t, "https://", comps.Scheme)
	assert.Equal(t, "example.com:443", comps.NetLoc)
	assert.Equal(t, "/a/b", comps.Path)
	assert.Equal(t, "x=1&y=2", comps.Query)
}
