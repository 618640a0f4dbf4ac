package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
)

// SearchHandler handles keyword search over users and posts
type SearchHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *SearchHandler {
	return &SearchHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/users", h.SearchUsers)
	g.GET("/posts", h.SearchPosts)
}

// SearchUsers finds users whose username contains the keyword
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	users, err := h.userRepository.SearchUsers(c.Request().Context(), keyword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// PostSearchResult is a post enriched with its author's display details
type PostSearchResult struct {
	Post     models.Post `json:"post"`
	Username string      `json:"username"`
	Avatar   string      `json:"avatar,omitempty"`
}

// SearchPosts finds posts whose title contains the keyword, enriched with
// the author's username and avatar. A missing author becomes "Unknown User".
func (h *SearchHandler) SearchPosts(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	ctx := c.Request().Context()

	posts, err := h.postRepository.SearchPosts(ctx, keyword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]PostSearchResult, 0, len(posts))
	for _, post := range posts {
		result := PostSearchResult{Post: post}
		author, err := h.userRepository.GetUserByID(ctx, post.UserID)
		if err != nil {
			result.Username = "Unknown User"
		} else {
			result.Username = author.Username
			result.Avatar = author.ProfilePicUrl
		}
		results = append(results, result)
	}

	return c.JSON(http.StatusOK, results)
}
