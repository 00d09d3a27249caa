package model

import "time"

// User represents a registered account. Email is the login identity.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:30;not null"`
	LastName     string    `json:"last_name" gorm:"size:30;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"size:17"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Cars    []Car    `json:"cars,omitempty" gorm:"foreignKey:OwnerID"`
}

// Profile extends a user with optional details. Created together with the
// user at registration, exactly one per user.
type Profile struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Location string `json:"location,omitempty" gorm:"size:30"`
}
