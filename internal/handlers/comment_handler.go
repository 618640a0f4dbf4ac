package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
)

// CommentHandler handles comments embedded in posts
type CommentHandler struct {
	postRepository repositories.PostRepository
	notifier       Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, notifier Notifier) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		notifier:       notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/:id/comments", h.AddComment)
	g.PUT("/:id/comments/:commentId", h.UpdateComment)
	g.DELETE("/:id/comments/:commentId", h.DeleteComment)
}

// AddComment appends a comment to a post and notifies the post owner
func (h *CommentHandler) AddComment(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	postID := c.Param("id")
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return postLookupError(err)
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	post.Comments = append(post.Comments, comment)

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != userID {
		if err := h.notifier.ProcessComment(ctx, post.UserID, userID, postID); err != nil {
			log.Printf("Error notifying comment on post %s: %v", postID, err)
		}
	}

	return c.JSON(http.StatusCreated, post)
}

// UpdateComment updates the content of the caller's own comment. A comment
// belonging to someone else is left untouched and the post returned as is.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	commentID := c.Param("commentId")
	changed := false
	for i := range post.Comments {
		if post.Comments[i].ID == commentID && post.Comments[i].UserID == userID {
			now := time.Now()
			post.Comments[i].Content = req.Content
			post.Comments[i].UpdatedAt = &now
			changed = true
			break
		}
	}

	if changed {
		if err := h.postRepository.UpdatePost(ctx, post); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, post)
}

// DeleteComment removes the caller's own comment from a post
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	commentID := c.Param("commentId")
	kept := post.Comments[:0]
	for _, comment := range post.Comments {
		if comment.ID == commentID && comment.UserID == userID {
			continue
		}
		kept = append(kept, comment)
	}
	post.Comments = kept

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}
