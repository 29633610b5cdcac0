package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "simple title",
			body:     `<html><head><title>Example Domain</title></head><body></body></html>`,
			expected: "Example Domain",
		},
		{
			name:     "whitespace trimmed",
			body:     "<html><head><title>\n  Padded Title \t</title></head></html>",
			expected: "Padded Title",
		},
		{
			name:     "first title wins",
			body:     `<title>first</title><title>second</title>`,
			expected: "first",
		},
		{
			name:     "no title",
			body:     `<html><body><h1>heading only</h1></body></html>`,
			expected: "",
		},
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
		{
			name:     "not html at all",
			body:     `{"json": true}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract([]byte(tt.body)))
		})
	}
}
