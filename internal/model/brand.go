package model

import "time"

// Brand is shared reference data, independent of any listing's lifecycle.
type Brand struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Logo      string    `json:"logo,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Models []CarModel `json:"models,omitempty" gorm:"foreignKey:BrandID"`
}

// CarModel is a model line within a brand. (brand, name) is unique together.
type CarModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BrandID   uint      `json:"brand_id" gorm:"uniqueIndex:idx_brand_model;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_brand_model;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Brand Brand `json:"-" gorm:"foreignKey:BrandID"`
}
