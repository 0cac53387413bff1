package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tz-journal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores documents as rows of the journal_blobs table
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Get retrieves the document stored under key
func (r *GormRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var blob models.StoredBlob
	result := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&blob)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, result.Error
	}
	return blob.Data, nil
}

// Put upserts the document stored under key
func (r *GormRepository) Put(ctx context.Context, key string, data []byte) error {
	blob := models.StoredBlob{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&blob).Error
}
