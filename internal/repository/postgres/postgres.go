package postgres

import (
	"context"
	"errors"
	"fmt"

	"shorty/internal/domain"
	"shorty/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage implements the Storage interface for PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// CreateMapping inserts a new mapping. The unique indexes on short_code,
// content_hash, header_snapshot_hash and global_id enforce the collision
// policy; the insert and the constraint check are one statement, so a crash
// mid-operation never leaves a partial row.
func (s *PostgresStorage) CreateMapping(ctx context.Context, m *domain.UrlMapping) (int64, error) {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("mapping collision",
				zap.String("short_code", m.ShortCode),
				zap.String("content_hash", m.ContentHash))
			return 0, repository.ErrDuplicateMapping
		}
		s.log.Error("failed to create mapping", zap.String("short_code", m.ShortCode), zap.Error(err))
		return 0, fmt.Errorf("failed to create mapping: %w", err)
	}

	s.log.Info("created mapping",
		zap.Int64("id", m.ID),
		zap.String("short_code", m.ShortCode),
		zap.Int64("owner_id", m.OwnerID))
	return m.ID, nil
}

// FindByShortCode returns the mapping for a code regardless of its
// is_active/archived flags.
func (s *PostgresStorage) FindByShortCode(ctx context.Context, code string) (*domain.UrlMapping, error) {
	var m domain.UrlMapping

	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCodeNotFound
	}
	if err != nil {
		s.log.Error("failed to find mapping", zap.String("short_code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to find mapping: %w", err)
	}

	return &m, nil
}

// IncrementClicks applies the click as a single atomic UPDATE so concurrent
// resolutions never lose increments.
func (s *PostgresStorage) IncrementClicks(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).
		Model(&domain.UrlMapping{}).
		Where("id = ?", id).
		Update("click_count", gorm.Expr("click_count + 1"))
	if result.Error != nil {
		s.log.Error("failed to increment clicks", zap.Int64("id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to increment clicks: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}

	return nil
}

// SetDisplayName records the title the enrichment worker extracted.
func (s *PostgresStorage) SetDisplayName(ctx context.Context, id int64, name string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.UrlMapping{}).
		Where("id = ?", id).
		Update("display_name", name)
	if result.Error != nil {
		s.log.Error("failed to set display name", zap.Int64("id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to set display name: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}

	return nil
}

// ListAllOrderedByClicks returns all mappings for the dashboard, most clicked
// first, ties broken by insertion order.
func (s *PostgresStorage) ListAllOrderedByClicks(ctx context.Context) ([]*domain.UrlMapping, error) {
	var mappings []*domain.UrlMapping

	err := s.db.WithContext(ctx).
		Order("click_count DESC, id ASC").
		Find(&mappings).Error
	if err != nil {
		s.log.Error("failed to list mappings", zap.Error(err))
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}

	return mappings, nil
}

// CountMappings returns the total number of mappings.
func (s *PostgresStorage) CountMappings(ctx context.Context) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&domain.UrlMapping{}).Count(&count).Error
	if err != nil {
		s.log.Error("failed to count mappings", zap.Error(err))
		return 0, fmt.Errorf("failed to count mappings: %w", err)
	}

	return count, nil
}

// ListShortCodes returns every short code for bloom filter priming.
func (s *PostgresStorage) ListShortCodes(ctx context.Context) ([]string, error) {
	var codes []string

	err := s.db.WithContext(ctx).
		Model(&domain.UrlMapping{}).
		Pluck("short_code", &codes).Error
	if err != nil {
		s.log.Error("failed to list short codes", zap.Error(err))
		return nil, fmt.Errorf("failed to list short codes: %w", err)
	}

	return codes, nil
}
