package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFilter(t *testing.T) {
	f := New(1000, 0.01)

	f.Add("abc123def0")
	assert.True(t, f.Test("abc123def0"))

	f.AddBatch([]string{"1111111111", "2222222222"})
	assert.True(t, f.Test("1111111111"))
	assert.True(t, f.Test("2222222222"))
}

func TestCodeFilter_NegativeLookups(t *testing.T) {
	f := New(10000, 0.001)

	for i := 0; i < 100; i++ {
		f.Add(fmt.Sprintf("code%06d", i))
	}

	// an unknown code should almost always test negative at this rate;
	// count misses rather than asserting a single probabilistic outcome
	misses := 0
	for i := 0; i < 100; i++ {
		if !f.Test(fmt.Sprintf("none%06d", i)) {
			misses++
		}
	}
	assert.Greater(t, misses, 90)
}
