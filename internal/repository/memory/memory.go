package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"shorty/internal/domain"
	"shorty/internal/repository"
)

// MemStorage is an in-memory Storage implementation used in tests and local
// runs without a database.
type MemStorage struct {
	mu      sync.RWMutex
	byCode  map[string]*domain.UrlMapping
	byID    map[int64]*domain.UrlMapping
	counter int64
}

func New() *MemStorage {
	return &MemStorage{
		byCode: make(map[string]*domain.UrlMapping),
		byID:   make(map[int64]*domain.UrlMapping),
	}
}

func (s *MemStorage) CreateMapping(_ context.Context, m *domain.UrlMapping) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[m.ShortCode]; exists {
		return 0, repository.ErrDuplicateMapping
	}
	for _, existing := range s.byCode {
		if existing.ContentHash == m.ContentHash ||
			existing.GlobalID == m.GlobalID ||
			(m.HeaderSnapshotHash != "" && existing.HeaderSnapshotHash == m.HeaderSnapshotHash) {
			return 0, repository.ErrDuplicateMapping
		}
	}

	s.counter++
	m.ID = s.counter
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	stored := *m
	s.byCode[m.ShortCode] = &stored
	s.byID[m.ID] = &stored

	return m.ID, nil
}

func (s *MemStorage) FindByShortCode(_ context.Context, code string) (*domain.UrlMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byCode[code]
	if !ok {
		return nil, repository.ErrCodeNotFound
	}

	out := *m
	return &out, nil
}

func (s *MemStorage) IncrementClicks(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return repository.ErrCodeNotFound
	}

	m.ClickCount++
	m.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) SetDisplayName(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return repository.ErrCodeNotFound
	}

	m.DisplayName = &name
	m.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) ListAllOrderedByClicks(_ context.Context) ([]*domain.UrlMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mappings := make([]*domain.UrlMapping, 0, len(s.byID))
	for _, m := range s.byID {
		out := *m
		mappings = append(mappings, &out)
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].ClickCount != mappings[j].ClickCount {
			return mappings[i].ClickCount > mappings[j].ClickCount
		}
		return mappings[i].ID < mappings[j].ID
	})

	return mappings, nil
}

func (s *MemStorage) CountMappings(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

func (s *MemStorage) ListShortCodes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.byCode))
	for code := range s.byCode {
		codes = append(codes, code)
	}
	return codes, nil
}
