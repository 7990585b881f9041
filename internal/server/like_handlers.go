package server

import (
	"bonds/internal/middleware"
	"bonds/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddLike records a like for the authenticated user on a post. On success
// the response echoes the notification payload that was queued for the
// post's author.
func (s *Server) AddLike(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	event, err := s.likeService.Add(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeSelfLike:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"result": "Error User",
			})
		case models.CodeAlreadyLiked:
			// Second like of the same post is a no-op, not a failure.
			return c.JSON(fiber.Map{"result": "Already liked"})
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		default:
			middleware.Logger.ErrorContext(c.UserContext(), "like creation failed",
				"post_id", postID, "user_id", currentUserID(c), "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"result": "Error BD",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"result": event})
}

// GetLikeCount returns the number of likes on a post.
func (s *Server) GetLikeCount(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if _, err := s.postService.Get(c.UserContext(), postID); err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	count, err := s.postService.LikeCount(c.UserContext(), postID)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "like count failed",
			"post_id", postID, "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"count": count})
}

// RemoveLike deletes the authenticated user's like from a post. The body
// carries true when a like row was actually removed.
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	removed, err := s.likeService.Remove(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		default:
			middleware.Logger.ErrorContext(c.UserContext(), "like removal failed",
				"post_id", postID, "user_id", currentUserID(c), "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"result": false,
			})
		}
	}

	status := fiber.StatusOK
	if !removed {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"result": removed})
}
