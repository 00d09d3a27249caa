package repository

import (
	"context"

	"gorm.io/gorm"

	"carmarket/internal/model"
)

// CatalogRepository covers the shared brand/model/feature reference data.
type CatalogRepository interface {
	ListBrands(ctx context.Context) ([]model.Brand, error)
	FindBrand(ctx context.Context, id uint) (*model.Brand, error)
	ListModelsByBrand(ctx context.Context, brandID uint) ([]model.CarModel, error)
	FindModel(ctx context.Context, id uint) (*model.CarModel, error)
	ListFeatures(ctx context.Context) ([]model.CarFeature, error)
	FindFeaturesByIDs(ctx context.Context, ids []uint) ([]model.CarFeature, error)
	UpsertBrand(ctx context.Context, brand *model.Brand) error
	UpsertModel(ctx context.Context, carModel *model.CarModel) error
	UpsertFeature(ctx context.Context, feature *model.CarFeature) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository builds a GORM-backed repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.WithContext(ctx).Order("name").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *catalogRepository) FindBrand(ctx context.Context, id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *catalogRepository) ListModelsByBrand(ctx context.Context, brandID uint) ([]model.CarModel, error) {
	var models []model.CarModel
	if err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *catalogRepository) FindModel(ctx context.Context, id uint) (*model.CarModel, error) {
	var carModel model.CarModel
	if err := r.db.WithContext(ctx).First(&carModel, id).Error; err != nil {
		return nil, err
	}
	return &carModel, nil
}

func (r *catalogRepository) ListFeatures(ctx context.Context) ([]model.CarFeature, error) {
	var features []model.CarFeature
	if err := r.db.WithContext(ctx).Order("category, name").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *catalogRepository) FindFeaturesByIDs(ctx context.Context, ids []uint) ([]model.CarFeature, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var features []model.CarFeature
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *catalogRepository) UpsertBrand(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Where("name = ?", brand.Name).FirstOrCreate(brand).Error
}

func (r *catalogRepository) UpsertModel(ctx context.Context, carModel *model.CarModel) error {
	return r.db.WithContext(ctx).
		Where("brand_id = ? AND name = ?", carModel.BrandID, carModel.Name).
		FirstOrCreate(carModel).Error
}

func (r *catalogRepository) UpsertFeature(ctx context.Context, feature *model.CarFeature) error {
	return r.db.WithContext(ctx).Where("name = ?", feature.Name).FirstOrCreate(feature).Error
}
