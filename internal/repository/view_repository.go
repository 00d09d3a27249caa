package repository

import (
	"context"

	"gorm.io/gorm"

	"carmarket/internal/model"
)

// ViewRepository appends view records. Records are analytics data and are
// never updated or read back on the hot path.
type ViewRepository interface {
	Create(ctx context.Context, view *model.CarView) error
}

type viewRepository struct {
	db *gorm.DB
}

// NewViewRepository builds a GORM-backed repository.
func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepository{db: db}
}

func (r *viewRepository) Create(ctx context.Context, view *model.CarView) error {
	return r.db.WithContext(ctx).Create(view).Error
}
