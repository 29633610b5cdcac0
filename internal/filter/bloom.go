package filter

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// CodeFilter is a thread-safe bloom filter over short codes. A negative test
// means the code definitely does not exist, so resolution can skip the
// database; a positive test may be a false positive and still hits storage.
type CodeFilter struct {
	filter *bloom.BloomFilter
	mu     sync.RWMutex
}

// New creates a filter sized for the expected number of mappings and the
// target false positive rate.
func New(expectedItems uint, fpRate float64) *CodeFilter {
	return &CodeFilter{
		filter: bloom.NewWithEstimates(expectedItems, fpRate),
	}
}

// Add records a newly created short code.
func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}

// AddBatch records existing short codes, used to prime the filter at startup.
func (f *CodeFilter) AddBatch(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, code := range codes {
		f.filter.AddString(code)
	}
}

// Test reports whether a short code might exist.
func (f *CodeFilter) Test(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}
