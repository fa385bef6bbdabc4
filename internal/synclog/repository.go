package synclog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository defines the interface for sync log operations. Entries are
// append-only; there is no update or delete.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	Latest(ctx context.Context) (*Entry, error)
	List(ctx context.Context, limit, offset int) ([]Entry, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new sync log repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Record(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Latest returns the most recent entry, or nil when no sync ever ran.
func (r *gormRepository) Latest(ctx context.Context) (*Entry, error) {
	var entry Entry
	err := r.db.WithContext(ctx).Order("sync_date DESC, id DESC").Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gormRepository) List(ctx context.Context, limit, offset int) ([]Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Entry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []Entry
	err := r.db.WithContext(ctx).
		Order("sync_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
