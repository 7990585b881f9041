package service

import (
	"context"
	"errors"
	"testing"

	"bonds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFixture() (*PostService, *stubPostRepo) {
	posts := &stubPostRepo{posts: map[uint]*models.Post{
		1: {ID: 1, Title: "First", UserID: 1},
		2: {ID: 2, Title: "Second", UserID: 2},
	}}
	return NewPostService(posts), posts
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	svc, posts := newPostFixture()

	id, err := svc.Create(ctx, CreatePostInput{Title: "Hello", Body: "world", AuthorID: 1})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, "Hello", posts.posts[id].Title)
	assert.Equal(t, uint(1), posts.posts[id].UserID)
}

func TestPostService_Create_StorageError(t *testing.T) {
	ctx := context.Background()
	svc, posts := newPostFixture()
	posts.err = models.NewStorageError(errors.New("insert failed"))

	id, err := svc.Create(ctx, CreatePostInput{Title: "Hello", AuthorID: 1})
	assert.Zero(t, id)
	assert.Equal(t, models.CodeStorage, models.ErrorCode(err))
}

func TestPostService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newPostFixture()

	t.Run("All", func(t *testing.T) {
		posts, err := svc.List(ctx, nil)
		assert.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("Filtered By Author", func(t *testing.T) {
		author := uint(2)
		posts, err := svc.List(ctx, &author)
		assert.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Second", posts[0].Title)
	})
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner Deletes", func(t *testing.T) {
		svc, posts := newPostFixture()

		deleted, err := svc.Delete(ctx, 1, 1)
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NotContains(t, posts.posts, uint(1))
	})

	t.Run("Non-Owner Is Refused", func(t *testing.T) {
		svc, posts := newPostFixture()

		deleted, err := svc.Delete(ctx, 1, 2)
		assert.NoError(t, err)
		assert.False(t, deleted)
		assert.Contains(t, posts.posts, uint(1))
	})

	t.Run("Missing Post", func(t *testing.T) {
		svc, _ := newPostFixture()

		deleted, err := svc.Delete(ctx, 99, 1)
		assert.False(t, deleted)
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}
