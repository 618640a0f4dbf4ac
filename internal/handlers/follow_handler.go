package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	userRepository repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{userRepository: userRepo}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.PUT("/follow/:id", h.FollowUser)
	g.PUT("/unfollow/:id", h.UnfollowUser)
	g.GET("/:id/followers", h.GetFollowers)
	g.GET("/:id/following", h.GetFollowing)
}

// FollowUser adds the target to the follower's following set and the
// follower to the target's followers set. The two writes are not
// transactional; a failure between them leaves the graph inconsistent.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	followerID := middleware.UserIDFromContext(c)
	if followerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	if followerID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	ctx := c.Request().Context()
	follower, err := h.userRepository.GetUserByID(ctx, followerID)
	if err != nil {
		return userLookupError(err)
	}
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return userLookupError(err)
	}

	for _, id := range follower.Following {
		if id == targetID {
			return echo.NewHTTPError(http.StatusConflict, "User is already following this user")
		}
	}

	follower.Following = append(follower.Following, targetID)
	target.Followers = append(target.Followers, followerID)

	if err := h.userRepository.UpdateUser(ctx, follower); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.UpdateUser(ctx, target); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Now following user"})
}

// UnfollowUser removes both sides of the follow relationship
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	followerID := middleware.UserIDFromContext(c)
	if followerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	ctx := c.Request().Context()
	follower, err := h.userRepository.GetUserByID(ctx, followerID)
	if err != nil {
		return userLookupError(err)
	}
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return userLookupError(err)
	}

	following := false
	for _, id := range follower.Following {
		if id == targetID {
			following = true
			break
		}
	}
	if !following {
		return echo.NewHTTPError(http.StatusConflict, "User is not following this user")
	}

	follower.Following = remove(follower.Following, targetID)
	target.Followers = remove(target.Followers, followerID)

	if err := h.userRepository.UpdateUser(ctx, follower); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.UpdateUser(ctx, target); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Unfollowed user"})
}

// GetFollowers lists a page of the user's followers, optionally filtered by
// a case-insensitive username substring.
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.listRelated(c, func(ctx echo.Context, userID string) ([]string, error) {
		user, err := h.userRepository.GetUserByID(ctx.Request().Context(), userID)
		if err != nil {
			return nil, err
		}
		return user.Followers, nil
	})
}

// GetFollowing lists a page of the users someone follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.listRelated(c, func(ctx echo.Context, userID string) ([]string, error) {
		user, err := h.userRepository.GetUserByID(ctx.Request().Context(), userID)
		if err != nil {
			return nil, err
		}
		return user.Following, nil
	})
}

func (h *FollowHandler) listRelated(c echo.Context, ids func(echo.Context, string) ([]string, error)) error {
	userID := c.Param("id")

	related, err := ids(c, userID)
	if err != nil {
		return userLookupError(err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size < 1 {
		size = 10
	}
	search := strings.TrimSpace(c.QueryParam("search"))

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), related, page, size, search)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, users)
}

func userLookupError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
