package repository

import (
	"context"

	"bonds/internal/cache"
	"bonds/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for the likes relation.
type LikeRepository interface {
	Create(ctx context.Context, postID, userID uint) error
	Delete(ctx context.Context, postID, userID uint) (bool, error)
	Exists(ctx context.Context, postID, userID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like row. The (user, post) uniqueness constraint is the
// authoritative concurrency guard: when two inserts race, the loser observes
// the constraint violation and reports AlreadyLiked instead of crashing.
func (r *likeRepository) Create(ctx context.Context, postID, userID uint) error {
	like := models.Like{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewAlreadyLikedError()
		}
		return models.NewStorageError(err)
	}
	cache.InvalidateLikeCount(ctx, postID)
	return nil
}

// Delete removes the like row and reports whether one existed.
func (r *likeRepository) Delete(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidateLikeCount(ctx, postID)
	return true, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewStorageError(err)
	}
	return count > 0, nil
}
