// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	IsSuperuser    bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	RegisteredAt   time.Time `gorm:"autoCreateTime" json:"registered_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
