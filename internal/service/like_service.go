// Package service implements the application's business workflows on top of
// the repository layer.
package service

import (
	"context"
	"log/slog"

	"bonds/internal/models"
	"bonds/internal/notifications"
	"bonds/internal/observability"
	"bonds/internal/repository"
)

// NotificationPublisher hands like events to the out-of-band notifier.
// *notifications.Queue satisfies it.
type NotificationPublisher interface {
	Enqueue(ctx context.Context, ev notifications.LikeEvent) error
}

// LikeService owns the like/unlike state machine: per (user, post) pair the
// relation is either Liked or NotLiked, self-transitions are forbidden, and a
// successful like triggers a fire-and-forget notification.
type LikeService struct {
	likeRepo  repository.LikeRepository
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	publisher NotificationPublisher
	logger    *slog.Logger
}

// NewLikeService creates a LikeService. publisher may be nil, in which case
// likes succeed without notifications.
func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher NotificationPublisher,
	logger *slog.Logger,
) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Add transitions (liker, post) from NotLiked to Liked.
//
// It fails with NotFound when liker or post is absent, SelfLike when the
// liker authored the post, AlreadyLiked when the row exists (checked up
// front, and again via the uniqueness constraint so a concurrent duplicate
// resolves the same way), and StorageError when the insert transaction
// fails. On success the returned event has already been handed to the
// notifier; delivery problems never affect the result.
func (s *LikeService) Add(ctx context.Context, postID, likerID uint) (*notifications.LikeEvent, error) {
	liker, err := s.userRepo.GetByID(ctx, likerID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID == likerID {
		observability.LikesTotal.WithLabelValues("add", "self_like").Inc()
		return nil, models.NewSelfLikeError()
	}

	liked, err := s.likeRepo.Exists(ctx, postID, likerID)
	if err != nil {
		return nil, err
	}
	if liked {
		observability.LikesTotal.WithLabelValues("add", "duplicate").Inc()
		return nil, models.NewAlreadyLikedError()
	}

	if err := s.likeRepo.Create(ctx, postID, likerID); err != nil {
		if models.ErrorCode(err) == models.CodeAlreadyLiked {
			// Lost a race against a concurrent like for the same pair; the
			// constraint kept the relation single-rowed.
			observability.LikesTotal.WithLabelValues("add", "duplicate").Inc()
		} else {
			observability.LikesTotal.WithLabelValues("add", "error").Inc()
		}
		return nil, err
	}
	observability.LikesTotal.WithLabelValues("add", "ok").Inc()

	ev := notifications.LikeEvent{
		TitlePost:  post.Title,
		NameUser:   post.User.Username,
		Email:      post.User.Email,
		NameFriend: liker.Username,
	}

	// The like is committed; notification delivery is best effort and must
	// never surface a failure to the caller.
	if s.publisher != nil {
		if err := s.publisher.Enqueue(ctx, ev); err != nil {
			s.logger.ErrorContext(ctx, "failed to enqueue like notification",
				slog.Uint64("post_id", uint64(postID)),
				slog.Uint64("liker_id", uint64(likerID)),
				slog.String("error", err.Error()))
		}
	}

	return &ev, nil
}

// Remove transitions (unliker, post) from Liked back to NotLiked.
//
// An author can never unlike their own post (no like could exist), and
// removing an absent like is a no-op reporting false. StorageError surfaces
// failed delete transactions, mirroring Add.
func (s *LikeService) Remove(ctx context.Context, postID, unlikerID uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, unlikerID); err != nil {
		return false, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.UserID == unlikerID {
		observability.LikesTotal.WithLabelValues("remove", "self_like").Inc()
		return false, nil
	}

	removed, err := s.likeRepo.Delete(ctx, postID, unlikerID)
	if err != nil {
		observability.LikesTotal.WithLabelValues("remove", "error").Inc()
		return false, err
	}
	if removed {
		observability.LikesTotal.WithLabelValues("remove", "ok").Inc()
	} else {
		observability.LikesTotal.WithLabelValues("remove", "noop").Inc()
	}
	return removed, nil
}
