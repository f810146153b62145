package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cart_records テーブルを key-value ストアとして使う
type KVGormRepository struct {
	db *gorm.DB
}

// DI
func NewKVGormRepository(db *gorm.DB) *KVGormRepository {
	return &KVGormRepository{db: db}
}

var _ repo.KeyValueStore = (*KVGormRepository)(nil)

func (r *KVGormRepository) Get(ctx context.Context, key string) (string, error) {
	var rec model.CartRecord

	err := r.db.WithContext(ctx).
		Where("store_key = ?", key).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// 同じキーは上書き
func (r *KVGormRepository) Set(ctx context.Context, key string, value string) error {
	rec := model.CartRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// 無いキーでもエラーにしない
func (r *KVGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("store_key = ?", key).
		Delete(&model.CartRecord{}).Error
}
