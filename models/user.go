package models

import (
	"time"
)

// User model. Every other entity carries a UserID and is authorized against it.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `gorm:"index" json:"-"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	Currency       string     `gorm:"size:8;not null;default:'INR'" json:"currency"`
	Avatar         string     `gorm:"size:512" json:"avatar,omitempty"`
}
