package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shorty/internal/cache"
	"shorty/internal/domain"
	"shorty/internal/enrich"
	"shorty/internal/filter"
	"shorty/internal/probe"
	"shorty/internal/repository"
	"shorty/internal/shortid"
	"shorty/internal/urlx"

	"go.uber.org/zap"
)

// createAttempts bounds how often a create is retried with a refreshed
// timestamp after a hash collision. Identical URL submissions within the
// same nanosecond tick collide by design; one refresh resolves them.
const createAttempts = 2

// MappingCache is the optional read-through cache consulted on resolution.
type MappingCache interface {
	GetMapping(ctx context.Context, code string) (*domain.UrlMapping, error)
	SetMapping(ctx context.Context, m *domain.UrlMapping) error
}

// Shortener orchestrates the create and resolve flows: normalize, probe,
// derive identifiers, persist, resolve and count clicks.
type Shortener struct {
	storage  repository.Storage
	prober   *probe.Prober
	mcache   MappingCache       // optional
	codes    *filter.CodeFilter // optional
	enricher *enrich.Worker     // optional
	log      *zap.Logger
}

// New creates a Shortener. The cache, code filter and enricher may be nil;
// correctness never depends on them.
func New(storage repository.Storage, prober *probe.Prober, mcache MappingCache, codes *filter.CodeFilter, enricher *enrich.Worker, log *zap.Logger) *Shortener {
	return &Shortener{
		storage:  storage,
		prober:   prober,
		mcache:   mcache,
		codes:    codes,
		enricher: enricher,
		log:      log,
	}
}

// CreateResult is everything the creation surface renders.
type CreateResult struct {
	Mapping    *domain.UrlMapping
	Components *urlx.Components
	Headers    shortid.HeaderSnapshot
}

// Shorten runs the full creation pipeline for a raw URL submitted by
// ownerID. The owner is always explicit: an authenticated account or the
// configured system account, never ambient state.
//
// Failure of any stage aborts the submission with no record written.
func (s *Shortener) Shorten(ctx context.Context, ownerID int64, rawURL string, headers shortid.HeaderSnapshot) (*CreateResult, error) {
	normalized, comps, err := urlx.Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	probed, err := s.prober.Check(ctx, normalized)
	if err != nil {
		return nil, err
	}

	var mapping *domain.UrlMapping
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := time.Now()
		identity := shortid.Generate(now, normalized, headers)
		checkedAt := probed.CheckedAt

		candidate := &domain.UrlMapping{
			OwnerID:            ownerID,
			LongURL:            normalized,
			ShortCode:          identity.ShortCode,
			ContentHash:        identity.ContentHash,
			HeaderSnapshotHash: identity.HeaderSnapshotHash,
			GlobalID:           identity.GlobalID,
			ClickCount:         0,
			Archived:           false,
			IsActive:           true,
			LastCheckedAt:      &checkedAt,
		}

		id, cerr := s.storage.CreateMapping(ctx, candidate)
		if cerr == nil {
			candidate.ID = id
			mapping = candidate
			break
		}
		err = cerr
		if errors.Is(err, repository.ErrDuplicateMapping) && attempt < createAttempts-1 {
			s.log.Warn("identifier collision, retrying with refreshed timestamp",
				zap.String("short_code", identity.ShortCode),
				zap.String("url", normalized))
			continue
		}
		return nil, err
	}

	if s.codes != nil {
		s.codes.Add(mapping.ShortCode)
	}
	if s.mcache != nil {
		if cerr := s.mcache.SetMapping(ctx, mapping); cerr != nil {
			s.log.Warn("failed to cache mapping", zap.String("short_code", mapping.ShortCode), zap.Error(cerr))
		}
	}
	if s.enricher != nil {
		if serr := s.enricher.Submit(&enrich.Job{MappingID: mapping.ID, Body: probed.Body}); serr != nil {
			s.log.Warn("enrichment submission dropped", zap.Int64("mapping_id", mapping.ID), zap.Error(serr))
		}
	}

	return &CreateResult{
		Mapping:    mapping,
		Components: comps,
		Headers:    headers,
	}, nil
}

// Resolve looks up a short code, durably records the click and returns the
// destination. Inactive or archived mappings are reported as not found; a
// destination is never returned without the counted click.
func (s *Shortener) Resolve(ctx context.Context, code string) (string, error) {
	if s.codes != nil && !s.codes.Test(code) {
		return "", repository.ErrCodeNotFound
	}

	mapping, err := s.lookup(ctx, code)
	if err != nil {
		return "", err
	}

	if !mapping.Resolvable() {
		return "", repository.ErrCodeNotFound
	}

	// the increment must land before the caller redirects; a stale cached
	// row whose database counterpart vanished surfaces here as not found
	if err := s.storage.IncrementClicks(ctx, mapping.ID); err != nil {
		return "", err
	}

	return mapping.LongURL, nil
}

func (s *Shortener) lookup(ctx context.Context, code string) (*domain.UrlMapping, error) {
	if s.mcache != nil {
		cached, err := s.mcache.GetMapping(ctx, code)
		if err != nil {
			s.log.Warn("cache lookup failed", zap.String("short_code", code), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	mapping, err := s.storage.FindByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.mcache != nil && mapping.Resolvable() {
		if cerr := s.mcache.SetMapping(ctx, mapping); cerr != nil {
			s.log.Warn("failed to cache mapping", zap.String("short_code", code), zap.Error(cerr))
		}
	}

	return mapping, nil
}

// ListMappings returns all mappings ordered by clicks plus the total count
// for the dashboard view.
func (s *Shortener) ListMappings(ctx context.Context) ([]*domain.UrlMapping, int64, error) {
	mappings, err := s.storage.ListAllOrderedByClicks(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mappings: %w", err)
	}

	count, err := s.storage.CountMappings(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count mappings: %w", err)
	}

	return mappings, count, nil
}

// PrimeCodeFilter loads every existing short code into the bloom filter.
// Called once at startup.
func (s *Shortener) PrimeCodeFilter(ctx context.Context) error {
	if s.codes == nil {
		return nil
	}

	codes, err := s.storage.ListShortCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to prime code filter: %w", err)
	}

	s.codes.AddBatch(codes)
	s.log.Info("primed short code filter", zap.Int("codes", len(codes)))
	return nil
}

var _ MappingCache = (*cache.RedisCache)(nil)
