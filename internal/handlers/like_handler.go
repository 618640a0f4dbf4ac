package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/repositories"
)

// LikeHandler handles liking and unliking posts
type LikeHandler struct {
	postRepository repositories.PostRepository
	notifier       Notifier
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository, notifier Notifier) *LikeHandler {
	return &LikeHandler{
		postRepository: postRepo,
		notifier:       notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.PUT("/:id/like/:userId", h.LikePost)
	g.PUT("/:id/unlike/:userId", h.UnlikePost)
}

// LikePost adds the user to the post's like set. Liking an already liked
// post changes nothing and produces no notification.
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID := c.Param("id")
	userID := c.Param("userId")

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return postLookupError(err)
	}

	if post.HasLiked(userID) {
		return c.JSON(http.StatusOK, post)
	}

	post.Likes = append(post.Likes, userID)
	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Liking your own post is not news
	if post.UserID != userID {
		if err := h.notifier.ProcessLike(ctx, post.UserID, userID, postID); err != nil {
			log.Printf("Error notifying like on post %s: %v", postID, err)
		}
	}

	return c.JSON(http.StatusOK, post)
}

// UnlikePost removes the user from the post's like set and retracts the
// matching notification. Unliking a post never liked changes nothing.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID := c.Param("id")
	userID := c.Param("userId")

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return postLookupError(err)
	}

	if !post.HasLiked(userID) {
		return c.JSON(http.StatusOK, post)
	}

	post.Likes = remove(post.Likes, userID)
	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != userID {
		if err := h.notifier.ProcessUnlike(ctx, post.UserID, userID, postID); err != nil {
			log.Printf("Error retracting like notification on post %s: %v", postID, err)
		}
	}

	return c.JSON(http.StatusOK, post)
}
