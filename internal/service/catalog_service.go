package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carmarket/internal/cache"
	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
	"carmarket/internal/repository"
)

const (
	brandsCacheKey       = "catalog:brands"
	modelsCacheKeyPrefix = "catalog:models:"
	catalogCacheTTL      = 10 * time.Minute
)

// CatalogService serves the brand/model/feature reference data behind the
// listing and search forms.
type CatalogService interface {
	Brands(ctx context.Context) ([]model.Brand, error)
	ModelsForBrand(ctx context.Context, brandID uint) ([]model.CarModel, error)
	Features(ctx context.Context) ([]model.CarFeature, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	cache       *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, cache *cache.Client) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, cache: cache}
}

// Brands lists all brands, cached because the set changes rarely.
func (s *catalogService) Brands(ctx context.Context) ([]model.Brand, error) {
	if data, _ := s.cache.Get(ctx, brandsCacheKey); data != nil {
		var brands []model.Brand
		if err := json.Unmarshal(data, &brands); err == nil {
			return brands, nil
		}
	}

	brands, err := s.catalogRepo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	if data, err := json.Marshal(brands); err == nil {
		_ = s.cache.Set(ctx, brandsCacheKey, data, catalogCacheTTL)
	}
	return brands, nil
}

// ModelsForBrand is the cascading brand→model rule: the choice set is the
// models of the selected brand, empty when no brand is selected. Backs both
// the listing form and the search form.
func (s *catalogService) ModelsForBrand(ctx context.Context, brandID uint) ([]model.CarModel, error) {
	if brandID == 0 {
		return nil, nil
	}

	key := fmt.Sprintf("%s%d", modelsCacheKeyPrefix, brandID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var models []model.CarModel
		if err := json.Unmarshal(data, &models); err == nil {
			return models, nil
		}
	}

	if _, err := s.catalogRepo.FindBrand(ctx, brandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrBrandNotFound
		}
		return nil, fmt.Errorf("find brand: %w", err)
	}

	models, err := s.catalogRepo.ListModelsByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if data, err := json.Marshal(models); err == nil {
		_ = s.cache.Set(ctx, key, data, catalogCacheTTL)
	}
	return models, nil
}

func (s *catalogService) Features(ctx context.Context) ([]model.CarFeature, error) {
	features, err := s.catalogRepo.ListFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	return features, nil
}
