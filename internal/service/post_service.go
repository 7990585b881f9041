package service

import (
	"context"

	"bonds/internal/models"
	"bonds/internal/repository"
)

// PostService implements post authoring workflows.
type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput carries the fields for a new post. Content is taken as-is;
// validating titles and bodies is a boundary concern.
type CreatePostInput struct {
	Title    string
	Body     string
	AuthorID uint
}

// NewPostService creates a PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// List returns all posts newest-first, or every post by authorID when the
// filter is set (filtered results carry no ordering guarantee).
func (s *PostService) List(ctx context.Context, authorID *uint) ([]*models.Post, error) {
	if authorID != nil {
		return s.postRepo.ListByAuthor(ctx, *authorID)
	}
	return s.postRepo.ListAll(ctx)
}

// Get returns a single post with its author materialized.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Create persists a new post and returns its id. A failed write surfaces as
// StorageError with nothing persisted.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (uint, error) {
	post := &models.Post{
		Title:  in.Title,
		Body:   in.Body,
		UserID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return 0, err
	}
	return post.ID, nil
}

// Delete removes a post if requesterID is its author. It returns false with
// no deletion when the requester does not own the post, NotFound when the
// post is absent, and StorageError when the delete transaction fails.
func (s *PostService) Delete(ctx context.Context, postID, requesterID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.UserID != requesterID {
		return false, nil
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return false, err
	}
	return true, nil
}

// LikeCount returns the number of likes on a post.
func (s *PostService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.postRepo.CountLikes(ctx, postID)
}
