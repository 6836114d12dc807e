package repository

import (
	"context"

	"github.com/Luuiskame/cubicular-api/internal/domain/entity"
	"github.com/Luuiskame/cubicular-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type formStoreRepository struct {
	db *gorm.DB
}

// NewFormStoreRepository creates a new form store repository
func NewFormStoreRepository(db *gorm.DB) repository.FormStoreRepository {
	return &formStoreRepository{db: db}
}

// Set upserts a form field value
func (r *formStoreRepository) Set(ctx context.Context, key, value string) error {
	field := entity.FormField{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&field).Error
}

// Delete removes a form field; deleting an absent key is not an error
func (r *formStoreRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.FormField{}).Error
}

// List returns all stored form fields keyed by field name
func (r *formStoreRepository) List(ctx context.Context) (map[string]string, error) {
	var fields []entity.FormField
	if err := r.db.WithContext(ctx).Find(&fields).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out, nil
}
