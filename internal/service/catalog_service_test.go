package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
)

func TestCatalogService_ModelsForBrand(t *testing.T) {
	t.Run("no brand selected yields empty choice set", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := NewCatalogService(catalogRepo, nil)

		models, err := svc.ModelsForBrand(context.Background(), 0)

		assert.NoError(t, err)
		assert.Empty(t, models)
		catalogRepo.AssertNotCalled(t, "ListModelsByBrand", mock.Anything, mock.Anything)
	})

	t.Run("models restricted to the selected brand", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		catalogRepo.On("FindBrand", mock.Anything, uint(1)).Return(&model.Brand{ID: 1, Name: "Toyota"}, nil)
		catalogRepo.On("ListModelsByBrand", mock.Anything, uint(1)).Return([]model.CarModel{
			{ID: 10, BrandID: 1, Name: "Camry"},
			{ID: 11, BrandID: 1, Name: "Corolla"},
		}, nil)
		svc := NewCatalogService(catalogRepo, nil)

		models, err := svc.ModelsForBrand(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, models, 2)
		for _, m := range models {
			assert.Equal(t, uint(1), m.BrandID)
		}
	})

	t.Run("unknown brand", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		catalogRepo.On("FindBrand", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewCatalogService(catalogRepo, nil)

		_, err := svc.ModelsForBrand(context.Background(), 99)

		assert.ErrorIs(t, err, apperr.ErrBrandNotFound)
	})
}
