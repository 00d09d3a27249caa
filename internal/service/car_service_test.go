package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
	"carmarket/internal/repository"
	"carmarket/internal/storage"
)

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Create(ctx context.Context, car *model.Car, featureIDs []uint) error {
	args := m.Called(ctx, car, featureIDs)
	return args.Error(0)
}

func (m *MockCarRepository) Update(ctx context.Context, car *model.Car, featureIDs []uint) error {
	args := m.Called(ctx, car, featureIDs)
	return args.Error(0)
}

func (m *MockCarRepository) FindByID(ctx context.Context, id uint) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCarRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) Search(ctx context.Context, criteria repository.SearchCriteria, limit, offset int) ([]model.Car, error) {
	args := m.Called(ctx, criteria, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) DeleteCascade(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarRepository) IncrementViews(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Brand), args.Error(1)
}

func (m *MockCatalogRepository) FindBrand(ctx context.Context, id uint) (*model.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockCatalogRepository) ListModelsByBrand(ctx context.Context, brandID uint) ([]model.CarModel, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CarModel), args.Error(1)
}

func (m *MockCatalogRepository) FindModel(ctx context.Context, id uint) (*model.CarModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CarModel), args.Error(1)
}

func (m *MockCatalogRepository) ListFeatures(ctx context.Context) ([]model.CarFeature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CarFeature), args.Error(1)
}

func (m *MockCatalogRepository) FindFeaturesByIDs(ctx context.Context, ids []uint) ([]model.CarFeature, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CarFeature), args.Error(1)
}

func (m *MockCatalogRepository) UpsertBrand(ctx context.Context, brand *model.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpsertModel(ctx context.Context, carModel *model.CarModel) error {
	args := m.Called(ctx, carModel)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpsertFeature(ctx context.Context, feature *model.CarFeature) error {
	args := m.Called(ctx, feature)
	return args.Error(0)
}

// MockImageRepository is a mock implementation of ImageRepository.
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) CreateBatch(ctx context.Context, images []model.CarImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *MockImageRepository) CountByCar(ctx context.Context, carID uint) (int64, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).(int64), args.Error(1)
}

// MockViewRepository is a mock implementation of ViewRepository.
type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) Create(ctx context.Context, view *model.CarView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

type carServiceMocks struct {
	carRepo     *MockCarRepository
	catalogRepo *MockCatalogRepository
	imageRepo   *MockImageRepository
	viewRepo    *MockViewRepository
}

func newTestCarService(t *testing.T) (CarService, carServiceMocks) {
	t.Helper()
	mocks := carServiceMocks{
		carRepo:     new(MockCarRepository),
		catalogRepo: new(MockCatalogRepository),
		imageRepo:   new(MockImageRepository),
		viewRepo:    new(MockViewRepository),
	}
	images, err := storage.NewImageStore(t.TempDir())
	assert.NoError(t, err)
	svc := NewCarService(mocks.carRepo, mocks.catalogRepo, mocks.imageRepo, mocks.viewRepo, images, 1900)
	return svc, mocks
}

func validListingInput() ListingInput {
	return ListingInput{
		BrandID:      1,
		ModelID:      10,
		Year:         2018,
		BodyType:     model.BodySedan,
		FuelType:     model.FuelGasoline,
		EngineVolume: decimal.RequireFromString("1.6"),
		EnginePower:  110,
		Transmission: model.TransmissionManual,
		DriveType:    model.DriveFront,
		Mileage:      85000,
		Condition:    model.ConditionUsed,
		Price:        decimal.RequireFromString("750000.00"),
		IsNegotiable: true,
		Color:        "black",
		Description:  "Well maintained, one owner.",
		Location:     "Moscow",
		ContactPhone: "+79991234567",
	}
}

func TestCarService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		input     func() ListingInput
		setupMock func(carServiceMocks)
		check     func(*testing.T, *model.Car, error)
	}{
		{
			name:  "successful submit persists listing with deduplicated features",
			input: func() ListingInput { in := validListingInput(); in.FeatureIDs = []uint{3, 5, 3}; return in },
			setupMock: func(m carServiceMocks) {
				m.catalogRepo.On("FindBrand", mock.Anything, uint(1)).Return(&model.Brand{ID: 1, Name: "Toyota"}, nil)
				m.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 1, Name: "Corolla"}, nil)
				m.catalogRepo.On("FindFeaturesByIDs", mock.Anything, []uint{3, 5}).
					Return([]model.CarFeature{{ID: 3}, {ID: 5}}, nil)
				m.carRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Car"), []uint{3, 5}).
					Run(func(args mock.Arguments) { args.Get(1).(*model.Car).ID = 42 }).
					Return(nil)
				m.carRepo.On("FindByID", mock.Anything, uint(42)).Return(&model.Car{ID: 42, OwnerID: 7}, nil)
			},
			check: func(t *testing.T, car *model.Car, err error) {
				assert.NoError(t, err)
				assert.Equal(t, uint(42), car.ID)
			},
		},
		{
			name:  "model from another brand is rejected before anything persists",
			input: validListingInput,
			setupMock: func(m carServiceMocks) {
				m.catalogRepo.On("FindBrand", mock.Anything, uint(1)).Return(&model.Brand{ID: 1}, nil)
				m.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 2}, nil)
			},
			check: func(t *testing.T, car *model.Car, err error) {
				assert.ErrorIs(t, err, apperr.ErrModelBrandMismatch)
				assert.Nil(t, car)
			},
		},
		{
			name:      "implausible year is a field error",
			input:     func() ListingInput { in := validListingInput(); in.Year = 1899; return in },
			setupMock: func(m carServiceMocks) {},
			check: func(t *testing.T, car *model.Car, err error) {
				var verr *apperr.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "year")
			},
		},
		{
			name:      "year after next calendar year is a field error",
			input:     func() ListingInput { in := validListingInput(); in.Year = time.Now().Year() + 2; return in },
			setupMock: func(m carServiceMocks) {},
			check: func(t *testing.T, car *model.Car, err error) {
				var verr *apperr.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "year")
			},
		},
		{
			name:      "negative mileage and price collect per-field errors",
			input:     func() ListingInput { in := validListingInput(); in.Mileage = -1; in.Price = decimal.RequireFromString("-5"); return in },
			setupMock: func(m carServiceMocks) {},
			check: func(t *testing.T, car *model.Car, err error) {
				var verr *apperr.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "mileage")
				assert.Contains(t, verr.Fields, "price")
			},
		},
		{
			name:  "unknown feature id is rejected",
			input: func() ListingInput { in := validListingInput(); in.FeatureIDs = []uint{3, 99}; return in },
			setupMock: func(m carServiceMocks) {
				m.catalogRepo.On("FindBrand", mock.Anything, uint(1)).Return(&model.Brand{ID: 1}, nil)
				m.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 1}, nil)
				m.catalogRepo.On("FindFeaturesByIDs", mock.Anything, []uint{3, 99}).
					Return([]model.CarFeature{{ID: 3}}, nil)
			},
			check: func(t *testing.T, car *model.Car, err error) {
				assert.ErrorIs(t, err, apperr.ErrFeatureNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newTestCarService(t)
			tt.setupMock(mocks)

			car, err := svc.Submit(context.Background(), 7, tt.input())
			tt.check(t, car, err)

			mocks.carRepo.AssertExpectations(t)
			mocks.catalogRepo.AssertExpectations(t)
		})
	}
}

func TestCarService_Edit_RepeatedFeatureSetIsIdempotent(t *testing.T) {
	svc, mocks := newTestCarService(t)
	mocks.carRepo.On("FindByID", mock.Anything, uint(42)).Return(&model.Car{ID: 42, OwnerID: 7, Status: model.StatusActive}, nil)
	mocks.catalogRepo.On("FindBrand", mock.Anything, uint(1)).Return(&model.Brand{ID: 1}, nil)
	mocks.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 1}, nil)
	mocks.catalogRepo.On("FindFeaturesByIDs", mock.Anything, []uint{3, 5}).
		Return([]model.CarFeature{{ID: 3}, {ID: 5}}, nil)
	// Each save replaces the relation set wholesale with the same deduped ids.
	mocks.carRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Car"), []uint{3, 5}).Return(nil).Times(2)

	input := validListingInput()
	input.FeatureIDs = []uint{3, 5, 3}

	_, err := svc.Edit(context.Background(), 42, 7, input)
	assert.NoError(t, err)
	_, err = svc.Edit(context.Background(), 42, 7, input)
	assert.NoError(t, err)

	mocks.carRepo.AssertExpectations(t)
	mocks.carRepo.AssertNumberOfCalls(t, "Update", 2)
}

func TestCarService_Edit_OwnershipEnforced(t *testing.T) {
	svc, mocks := newTestCarService(t)
	mocks.carRepo.On("FindByID", mock.Anything, uint(42)).Return(&model.Car{ID: 42, OwnerID: 7}, nil)

	_, err := svc.Edit(context.Background(), 42, 8, validListingInput())

	assert.ErrorIs(t, err, apperr.ErrNotOwner)
	mocks.carRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCarService_Delete(t *testing.T) {
	t.Run("owner delete cascades", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.carRepo.On("FindByID", mock.Anything, uint(42)).Return(&model.Car{ID: 42, OwnerID: 7}, nil)
		mocks.carRepo.On("DeleteCascade", mock.Anything, uint(42)).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 42, 7))
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("missing listing", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.carRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), 42, 7), apperr.ErrCarNotFound)
	})
}

func TestCarService_Search(t *testing.T) {
	t.Run("defaults to active listings", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.carRepo.On("Search", mock.Anything, mock.MatchedBy(func(cr repository.SearchCriteria) bool {
			return cr.Status == model.StatusActive
		}), 20, 0).Return([]model.Car{}, nil)

		_, err := svc.Search(context.Background(), repository.SearchCriteria{}, 1, 0)
		assert.NoError(t, err)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("year bounds are forwarded to the store", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		from, to := 2015, 2020
		mocks.carRepo.On("Search", mock.Anything, mock.MatchedBy(func(cr repository.SearchCriteria) bool {
			return cr.YearFrom != nil && *cr.YearFrom == 2015 && cr.YearTo != nil && *cr.YearTo == 2020
		}), 20, 0).Return([]model.Car{}, nil)

		_, err := svc.Search(context.Background(), repository.SearchCriteria{YearFrom: &from, YearTo: &to}, 1, 0)
		assert.NoError(t, err)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("absent year bounds stay unset", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.carRepo.On("Search", mock.Anything, mock.MatchedBy(func(cr repository.SearchCriteria) bool {
			return cr.YearFrom == nil && cr.YearTo == nil
		}), 20, 0).Return([]model.Car{}, nil)

		_, err := svc.Search(context.Background(), repository.SearchCriteria{}, 1, 0)
		assert.NoError(t, err)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("model filter inconsistent with brand is dropped", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 2}, nil)
		mocks.carRepo.On("Search", mock.Anything, mock.MatchedBy(func(cr repository.SearchCriteria) bool {
			return cr.BrandID == 1 && cr.ModelID == 0
		}), 20, 0).Return([]model.Car{}, nil)

		_, err := svc.Search(context.Background(), repository.SearchCriteria{BrandID: 1, ModelID: 10}, 1, 0)
		assert.NoError(t, err)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("consistent model filter is kept", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.catalogRepo.On("FindModel", mock.Anything, uint(10)).Return(&model.CarModel{ID: 10, BrandID: 1}, nil)
		mocks.carRepo.On("Search", mock.Anything, mock.MatchedBy(func(cr repository.SearchCriteria) bool {
			return cr.BrandID == 1 && cr.ModelID == 10
		}), 20, 0).Return([]model.Car{}, nil)

		_, err := svc.Search(context.Background(), repository.SearchCriteria{BrandID: 1, ModelID: 10}, 1, 0)
		assert.NoError(t, err)
	})
}

func TestCarService_RecordView(t *testing.T) {
	t.Run("appends record and increments counter", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		viewer := uint(7)
		mocks.viewRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *model.CarView) bool {
			return v.CarID == 42 && v.UserID != nil && *v.UserID == 7 && v.IPAddress == "10.0.0.1"
		})).Return(nil)
		mocks.carRepo.On("IncrementViews", mock.Anything, uint(42)).Return(nil)

		svc.RecordView(context.Background(), 42, &viewer, "10.0.0.1")

		mocks.viewRepo.AssertExpectations(t)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("anonymous view counts too", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.viewRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *model.CarView) bool {
			return v.CarID == 42 && v.UserID == nil
		})).Return(nil)
		mocks.carRepo.On("IncrementViews", mock.Anything, uint(42)).Return(nil)

		svc.RecordView(context.Background(), 42, nil, "10.0.0.2")

		mocks.viewRepo.AssertExpectations(t)
		mocks.carRepo.AssertExpectations(t)
	})

	t.Run("store failure is swallowed and counter untouched", func(t *testing.T) {
		svc, mocks := newTestCarService(t)
		mocks.viewRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("store down"))

		svc.RecordView(context.Background(), 42, nil, "10.0.0.3")

		mocks.carRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestCarService_AttachImages_Cap(t *testing.T) {
	svc, mocks := newTestCarService(t)
	mocks.carRepo.On("FindByID", mock.Anything, uint(42)).Return(&model.Car{ID: 42, OwnerID: 7}, nil)
	mocks.imageRepo.On("CountByCar", mock.Anything, uint(42)).Return(int64(9), nil)

	uploads := []ImageUpload{{}, {}}
	_, err := svc.AttachImages(context.Background(), 42, 7, uploads)

	assert.ErrorIs(t, err, apperr.ErrTooManyImages)
	mocks.imageRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}
