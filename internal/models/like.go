package models

import (
	"time"
)

// Like records that a user endorsed a post. The (user, post) pair carries a
// database-level uniqueness constraint in addition to the composite primary
// key, so concurrent duplicate inserts can never produce two rows.
type Like struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;uniqueIndex:idx_unique_user_post,priority:2" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;uniqueIndex:idx_unique_user_post,priority:1" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
