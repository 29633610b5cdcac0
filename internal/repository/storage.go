package repository

import (
	"context"
	"errors"

	"shorty/internal/domain"
)

var (
	// ErrCodeNotFound is returned when no mapping exists for a short code.
	ErrCodeNotFound = errors.New("short code not found")
	// ErrDuplicateMapping is returned when a create collides with an
	// existing short code, content hash, header hash or global id.
	ErrDuplicateMapping = errors.New("mapping already exists")
)

// Storage persists UrlMapping rows. Create and IncrementClicks must be atomic
// under concurrent callers: no partial rows, no lost clicks.
type Storage interface {
	// CreateMapping inserts a new mapping and returns the assigned id.
	CreateMapping(ctx context.Context, m *domain.UrlMapping) (int64, error)

	// FindByShortCode returns the mapping for a code without filtering on
	// is_active/archived; that filtering belongs to the resolver.
	FindByShortCode(ctx context.Context, code string) (*domain.UrlMapping, error)

	// IncrementClicks atomically adds one click and refreshes updated_at.
	IncrementClicks(ctx context.Context, id int64) error

	// SetDisplayName records the enriched page title.
	SetDisplayName(ctx context.Context, id int64, name string) error

	// ListAllOrderedByClicks returns every mapping, most clicked first,
	// insertion order breaking ties.
	ListAllOrderedByClicks(ctx context.Context) ([]*domain.UrlMapping, error)

	// CountMappings returns the total number of mappings.
	CountMappings(ctx context.Context) (int64, error)

	// ListShortCodes returns every short code, used to prime the bloom
	// filter at startup.
	ListShortCodes(ctx context.Context) ([]string, error)
}
