package server

import (
	"bonds/internal/middleware"
	"bonds/internal/models"
	"bonds/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns all posts, newest first. An author_id query parameter
// narrows the listing to a single author.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	var authorID *uint
	if v := c.QueryInt("author_id", 0); v > 0 {
		id := uint(v)
		authorID = &id
	}

	posts, err := s.postService.List(c.UserContext(), authorID)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "post listing failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns a single post with its author and like count.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), postID)
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		default:
			middleware.Logger.ErrorContext(c.UserContext(), "post lookup failed",
				"post_id", postID, "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return c.JSON(post)
}

// CreatePost creates a post authored by the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	title := c.FormValue("title")
	body := c.FormValue("content")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	id, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		Title:    title,
		Body:     body,
		AuthorID: currentUserID(c),
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "post creation failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// DeletePost removes a post owned by the authenticated user, along with
// its likes.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	deleted, err := s.postService.Delete(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		default:
			middleware.Logger.ErrorContext(c.UserContext(), "post deletion failed",
				"post_id", postID, "error", err)
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
	}

	status := fiber.StatusOK
	if !deleted {
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{"result": deleted})
}
