package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/feed"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
)

// FeedHandler serves ranked views of recent posts
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed/trending", h.Trending)
	g.GET("/feed/recent", h.Recent)
	g.GET("/feed/popular", h.Popular)
}

// Trending lists posts ranked by trending score, highest first
func (h *FeedHandler) Trending(c echo.Context) error {
	posts, err := h.window(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed.Trending(posts, time.Now()))
}

// Recent lists posts from the last 30 days, newest first
func (h *FeedHandler) Recent(c echo.Context) error {
	posts, err := h.window(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed.Recent(posts, time.Now()))
}

// Popular lists posts from the last 30 days by likes plus comments
func (h *FeedHandler) Popular(c echo.Context) error {
	posts, err := h.window(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feed.Popular(posts, time.Now()))
}

func (h *FeedHandler) window(c echo.Context) ([]models.Post, error) {
	cutoff := time.Now().AddDate(0, 0, -30)
	posts, err := h.postRepository.GetPostsCreatedAfter(c.Request().Context(), cutoff)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return posts, nil
}
