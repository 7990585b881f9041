package models

import (
	"time"
)

// Post represents a blog post authored by a user.
// DateCreation is assigned by the server on insert and never updated.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null;default:''" json:"title"`
	Body         string    `gorm:"type:text;not null;default:''" json:"body"`
	DateCreation time.Time `gorm:"autoCreateTime;<-:create" json:"date_creation"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->" json:"likes_count"`
}
