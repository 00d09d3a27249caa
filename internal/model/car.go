package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BodyType enumerates car body styles.
type BodyType string

const (
	BodySedan       BodyType = "sedan"
	BodyHatchback   BodyType = "hatchback"
	BodyWagon       BodyType = "wagon"
	BodyCoupe       BodyType = "coupe"
	BodyConvertible BodyType = "convertible"
	BodySUV         BodyType = "suv"
	BodyCrossover   BodyType = "crossover"
	BodyPickup      BodyType = "pickup"
	BodyMinivan     BodyType = "minivan"
	BodyOther       BodyType = "other"
)

// FuelType enumerates fuel kinds.
type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelDiesel   FuelType = "diesel"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
	FuelGas      FuelType = "gas"
)

// Transmission enumerates gearbox kinds.
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
	TransmissionCVT       Transmission = "cvt"
	TransmissionRobot     Transmission = "robot"
)

// DriveType enumerates drivetrain layouts.
type DriveType string

const (
	DriveFront DriveType = "front"
	DriveRear  DriveType = "rear"
	DriveAll   DriveType = "all"
)

// Condition enumerates vehicle conditions.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionUsed    Condition = "used"
	ConditionDamaged Condition = "damaged"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive   ListingStatus = "active"
	StatusSold     ListingStatus = "sold"
	StatusInactive ListingStatus = "inactive"
)

// Valid reports whether the value is a known body type.
func (b BodyType) Valid() bool {
	switch b {
	case BodySedan, BodyHatchback, BodyWagon, BodyCoupe, BodyConvertible,
		BodySUV, BodyCrossover, BodyPickup, BodyMinivan, BodyOther:
		return true
	}
	return false
}

// Valid reports whether the value is a known fuel type.
func (f FuelType) Valid() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelHybrid, FuelElectric, FuelGas:
		return true
	}
	return false
}

// Valid reports whether the value is a known transmission.
func (t Transmission) Valid() bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic, TransmissionCVT, TransmissionRobot:
		return true
	}
	return false
}

// Valid reports whether the value is a known drive type.
func (d DriveType) Valid() bool {
	switch d {
	case DriveFront, DriveRear, DriveAll:
		return true
	}
	return false
}

// Valid reports whether the value is a known condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionDamaged:
		return true
	}
	return false
}

// Valid reports whether the value is a known listing status.
func (s ListingStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusInactive:
		return true
	}
	return false
}

// Car is a vehicle listing owned by a user. ViewsCount only grows, and only
// through view recording.
type Car struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OwnerID      uint            `json:"owner_id" gorm:"not null;index"`
	BrandID      uint            `json:"brand_id" gorm:"not null;index"`
	ModelID      uint            `json:"model_id" gorm:"not null;index"`
	Year         int             `json:"year" gorm:"not null"`
	BodyType     BodyType        `json:"body_type" gorm:"type:varchar(20);not null"`
	FuelType     FuelType        `json:"fuel_type" gorm:"type:varchar(20);not null"`
	EngineVolume decimal.Decimal `json:"engine_volume" gorm:"type:decimal(3,1);not null"`
	EnginePower  int             `json:"engine_power" gorm:"not null"`
	Transmission Transmission    `json:"transmission" gorm:"type:varchar(20);not null"`
	DriveType    DriveType       `json:"drive_type" gorm:"type:varchar(10);not null"`
	Mileage      int             `json:"mileage" gorm:"not null"`
	Condition    Condition       `json:"condition" gorm:"type:varchar(20);not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	IsNegotiable bool            `json:"is_negotiable" gorm:"default:true"`
	Color        string          `json:"color" gorm:"size:50;not null"`
	VIN          string          `json:"vin,omitempty" gorm:"size:17"`
	LicensePlate string          `json:"license_plate,omitempty" gorm:"size:20"`
	Description  string          `json:"description" gorm:"type:text;not null"`
	Location     string          `json:"location" gorm:"size:100;not null"`
	ContactPhone string          `json:"contact_phone" gorm:"size:17;not null"`
	Status       ListingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	ViewsCount   uint            `json:"views_count" gorm:"not null;default:0"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relations
	Owner    User         `json:"-" gorm:"foreignKey:OwnerID"`
	Brand    Brand        `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Model    CarModel     `json:"model,omitempty" gorm:"foreignKey:ModelID"`
	Images   []CarImage   `json:"images,omitempty" gorm:"foreignKey:CarID"`
	Features []CarFeature `json:"features,omitempty" gorm:"many2many:car_feature_relations"`
}
