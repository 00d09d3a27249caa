package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carmarket/internal/model"
)

// SearchCriteria is the optional, conjunctive filter set for listing search.
// Zero values impose no filter; range bounds are pointers so zero is a valid
// bound.
type SearchCriteria struct {
	Query        string
	BrandID      uint
	ModelID      uint
	YearFrom     *int
	YearTo       *int
	PriceFrom    *decimal.Decimal
	PriceTo      *decimal.Decimal
	BodyType     model.BodyType
	FuelType     model.FuelType
	Transmission model.Transmission
	Condition    model.Condition
	Status       model.ListingStatus
}

// CarRepository defines listing persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car, featureIDs []uint) error
	Update(ctx context.Context, car *model.Car, featureIDs []uint) error
	FindByID(ctx context.Context, id uint) (*model.Car, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error)
	Search(ctx context.Context, criteria SearchCriteria, limit, offset int) ([]model.Car, error)
	DeleteCascade(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository builds a GORM-backed repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

// Create persists the listing and its feature relations in one transaction.
func (r *carRepository) Create(ctx context.Context, car *model.Car, featureIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(car).Error; err != nil {
			return err
		}
		return replaceFeatureRelations(tx, car.ID, featureIDs)
	})
}

// Update saves the listing and replaces its feature-relation set to exactly
// match featureIDs, all-or-nothing.
func (r *carRepository) Update(ctx context.Context, car *model.Car, featureIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(car).Error; err != nil {
			return err
		}
		return replaceFeatureRelations(tx, car.ID, featureIDs)
	})
}

// replaceFeatureRelations is an idempotent set-replace: delete everything,
// re-insert the submitted set. OnConflict DoNothing absorbs duplicate ids in
// the input.
func replaceFeatureRelations(tx *gorm.DB, carID uint, featureIDs []uint) error {
	if err := tx.Where("car_id = ?", carID).Delete(&model.CarFeatureRelation{}).Error; err != nil {
		return err
	}
	if len(featureIDs) == 0 {
		return nil
	}
	relations := make([]model.CarFeatureRelation, 0, len(featureIDs))
	for _, id := range featureIDs {
		relations = append(relations, model.CarFeatureRelation{CarID: carID, CarFeatureID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&relations).Error
}

func (r *carRepository) FindByID(ctx context.Context, id uint) (*model.Car, error) {
	var car model.Car
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Model").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Features").
		First(&car, id).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Model").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// Search applies the provided criteria conjunctively, newest first.
func (r *carRepository) Search(ctx context.Context, criteria SearchCriteria, limit, offset int) ([]model.Car, error) {
	q := r.db.WithContext(ctx).Model(&model.Car{}).
		Select("cars.*").
		Joins("JOIN brands ON brands.id = cars.brand_id").
		Joins("JOIN car_models ON car_models.id = cars.model_id").
		Preload("Brand").
		Preload("Model").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") })

	if criteria.Query != "" {
		like := "%" + criteria.Query + "%"
		q = q.Where("brands.name LIKE ? OR car_models.name LIKE ? OR cars.description LIKE ?", like, like, like)
	}
	if criteria.BrandID != 0 {
		q = q.Where("cars.brand_id = ?", criteria.BrandID)
	}
	if criteria.ModelID != 0 {
		q = q.Where("cars.model_id = ?", criteria.ModelID)
	}
	if criteria.YearFrom != nil {
		q = q.Where("cars.year >= ?", *criteria.YearFrom)
	}
	if criteria.YearTo != nil {
		q = q.Where("cars.year <= ?", *criteria.YearTo)
	}
	if criteria.PriceFrom != nil {
		q = q.Where("cars.price >= ?", *criteria.PriceFrom)
	}
	if criteria.PriceTo != nil {
		q = q.Where("cars.price <= ?", *criteria.PriceTo)
	}
	if criteria.BodyType != "" {
		q = q.Where("cars.body_type = ?", criteria.BodyType)
	}
	if criteria.FuelType != "" {
		q = q.Where("cars.fuel_type = ?", criteria.FuelType)
	}
	if criteria.Transmission != "" {
		q = q.Where("cars.transmission = ?", criteria.Transmission)
	}
	if criteria.Condition != "" {
		// condition is reserved in MySQL
		q = q.Where("cars.`condition` = ?", criteria.Condition)
	}
	if criteria.Status != "" {
		q = q.Where("cars.status = ?", criteria.Status)
	}

	var cars []model.Car
	if err := q.Order("cars.created_at DESC").Limit(limit).Offset(offset).Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// DeleteCascade removes the listing together with its images, feature
// relations and view records in one transaction. Ownership of those rows is
// explicit here, not delegated to foreign-key cascades.
func (r *carRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", id).Delete(&model.CarImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", id).Delete(&model.CarFeatureRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", id).Delete(&model.CarView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Car{}, id).Error
	})
}

// IncrementViews bumps views_count atomically at the store so concurrent
// viewers never lose updates.
func (r *carRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Car{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}
