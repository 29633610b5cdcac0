package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"shorty/internal/domain"
	"shorty/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapping(i int) *domain.UrlMapping {
	return &domain.UrlMapping{
		OwnerID:            1,
		LongURL:            fmt.Sprintf("http://example.com/page/%d", i),
		ShortCode:          fmt.Sprintf("code%06d", i),
		ContentHash:        fmt.Sprintf("hash%060d", i),
		HeaderSnapshotHash: fmt.Sprintf("hdr%061d", i),
		GlobalID:           fmt.Sprintf("global-%d", i),
		IsActive:           true,
	}
}

func TestCreateMapping_AssignsID(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateMapping(ctx, newMapping(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = s.CreateMapping(ctx, newMapping(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	count, err := s.CountMappings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCreateMapping_DuplicateShortCode(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateMapping(ctx, newMapping(1))
	require.NoError(t, err)

	dup := newMapping(2)
	dup.ShortCode = newMapping(1).ShortCode
	_, err = s.CreateMapping(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateMapping)

	count, err := s.CountMappings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateMapping_DuplicateContentHash(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateMapping(ctx, newMapping(1))
	require.NoError(t, err)

	dup := newMapping(2)
	dup.ContentHash = newMapping(1).ContentHash
	_, err = s.CreateMapping(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateMapping)
}

func TestFindByShortCode(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := newMapping(1)
	m.IsActive = false
	_, err := s.CreateMapping(ctx, m)
	require.NoError(t, err)

	// no is_active filtering at the storage layer
	found, err := s.FindByShortCode(ctx, m.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, m.LongURL, found.LongURL)
	assert.False(t, found.IsActive)

	_, err = s.FindByShortCode(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)
}

func TestIncrementClicks(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := newMapping(1)
	id, err := s.CreateMapping(ctx, m)
	require.NoError(t, err)

	require.NoError(t, s.IncrementClicks(ctx, id))
	require.NoError(t, s.IncrementClicks(ctx, id))

	found, err := s.FindByShortCode(ctx, m.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ClickCount)

	assert.ErrorIs(t, s.IncrementClicks(ctx, 9999), repository.ErrCodeNotFound)
}

func TestIncrementClicks_Concurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := newMapping(1)
	id, err := s.CreateMapping(ctx, m)
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, s.IncrementClicks(ctx, id))
		}()
	}
	wg.Wait()

	found, err := s.FindByShortCode(ctx, m.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, int64(n), found.ClickCount)
}

func TestSetDisplayName(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateMapping(ctx, newMapping(1))
	require.NoError(t, err)

	require.NoError(t, s.SetDisplayName(ctx, id, "Example Domain"))

	found, err := s.FindByShortCode(ctx, newMapping(1).ShortCode)
	require.NoError(t, err)
	assert.Equal(t, "Example Domain", found.Title())
}

func TestListAllOrderedByClicks(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id, err := s.CreateMapping(ctx, newMapping(i))
		require.NoError(t, err)
		// mapping 2 gets the most clicks, mapping 1 none
		for j := 0; j < (i%3)*2; j++ {
			require.NoError(t, s.IncrementClicks(ctx, id))
		}
	}

	mappings, err := s.ListAllOrderedByClicks(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	assert.Equal(t, int64(4), mappings[0].ClickCount)
	assert.Equal(t, int64(2), mappings[1].ClickCount)
	assert.Equal(t, int64(0), mappings[2].ClickCount)
}

func TestListAllOrderedByClicks_TiesByInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := s.CreateMapping(ctx, newMapping(i))
		require.NoError(t, err)
	}

	mappings, err := s.ListAllOrderedByClicks(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	for i, m := range mappings {
		assert.Equal(t, int64(i+1), m.ID)
	}
}

func TestListShortCodes(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateMapping(ctx, newMapping(1))
	require.NoError(t, err)
	_, err = s.CreateMapping(ctx, newMapping(2))
	require.NoError(t, err)

	codes, err := s.ListShortCodes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"code000001", "code000002"}, codes)
}
