package repository

import (
	"context"

	"gorm.io/gorm"

	"carmarket/internal/model"
)

// ImageRepository defines listing-image persistence operations.
type ImageRepository interface {
	CreateBatch(ctx context.Context, images []model.CarImage) error
	CountByCar(ctx context.Context, carID uint) (int64, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository builds a GORM-backed repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) CreateBatch(ctx context.Context, images []model.CarImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *imageRepository) CountByCar(ctx context.Context, carID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CarImage{}).
		Where("car_id = ?", carID).
		Count(&count).Error
	return count, err
}
