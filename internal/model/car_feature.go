package model

import "time"

// CarFeature is an optional equipment tag, shared reference data.
type CarFeature struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Category string `json:"category" gorm:"size:50;not null"`
}

// CarFeatureRelation links a listing to a feature. Composite key keeps one
// row per (car, feature) pair; a repeated submit is a no-op.
type CarFeatureRelation struct {
	CarID        uint `json:"car_id" gorm:"primaryKey;autoIncrement:false"`
	CarFeatureID uint `json:"car_feature_id" gorm:"primaryKey;autoIncrement:false"`
}

// CarView is an append-only view record kept for analytics.
type CarView struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CarID     uint      `json:"car_id" gorm:"not null;index"`
	UserID    *uint     `json:"user_id,omitempty"`
	IPAddress string    `json:"ip_address" gorm:"size:45;not null"`
	ViewedAt  time.Time `json:"viewed_at" gorm:"autoCreateTime"`
}
