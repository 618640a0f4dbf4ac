package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
	"github.com/skilly-social/backend/pkg/cloudinary"
)

const (
	maxPostImages    = 3
	maxVideoDuration = 30 // seconds
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	mediaStore       cloudinary.MediaStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, mediaStore cloudinary.MediaStore) *PostHandler {
	return &PostHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		notificationRepo: notifRepo,
		mediaStore:       mediaStore,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("", h.GetAllPosts)
	g.POST("", h.CreatePost)
	g.GET("/saved/:userId", h.GetSavedPosts)
	g.GET("/user/:userId", h.GetPostsByUser)
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.UpdatePost)
	g.DELETE("/:id", h.DeletePost)
	g.PUT("/:id/share", h.SharePost)
	g.PUT("/:id/save/:userId", h.ToggleSavePost)
}

// GetAllPosts retrieves all posts, newest first
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPostsByUser retrieves a user's posts
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a post from a multipart form: postType, title,
// description, up to 3 images, and an optional video of at most 30 seconds.
// An over-long video is purged from the media store and the call fails.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	post := &models.Post{
		UserID:   userID,
		Username: user.Username,
		PostType: c.FormValue("postType"),
		Title:    title,
		Content:  c.FormValue("description"),
	}

	form, err := c.MultipartForm()
	if err == nil {
		if err := h.attachImages(c, post, form.File["images"]); err != nil {
			return err
		}
	}

	if videoHeader, err := c.FormFile("video"); err == nil && videoHeader != nil {
		if err := h.attachVideo(c, post, videoHeader); err != nil {
			return err
		}
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) attachImages(c echo.Context, post *models.Post, headers []*multipart.FileHeader) error {
	if len(headers) == 0 {
		return nil
	}
	if len(headers) > maxPostImages {
		return echo.NewHTTPError(http.StatusBadRequest, "Maximum 3 images are allowed per post")
	}

	for _, header := range headers {
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed")
		}

		file, err := header.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		media, err := h.mediaStore.UploadImage(c.Request().Context(), file, "post_images")
		file.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload image")
		}

		post.MediaUrls = append(post.MediaUrls, media.URL)
		post.MediaPublicIDs = append(post.MediaPublicIDs, media.PublicID)
	}
	return nil
}

func (h *PostHandler) attachVideo(c echo.Context, post *models.Post, header *multipart.FileHeader) error {
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Only video files are allowed")
	}

	file, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read video")
	}
	defer file.Close()

	media, err := h.mediaStore.UploadVideo(c.Request().Context(), file, "post_videos")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload video")
	}

	if media.Duration > maxVideoDuration {
		// The asset is already on the media store; purge it before rejecting
		if err := h.mediaStore.DeleteVideo(c.Request().Context(), media.PublicID); err != nil {
			log.Printf("Error deleting over-long video %s: %v", media.PublicID, err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Video duration exceeds the 30-second limit")
	}

	post.VideoUrl = media.URL
	post.VideoPublicID = media.PublicID
	post.VideoDuration = media.Duration
	return nil
}

// UpdatePost updates a post's fields and optionally replaces its media
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	if post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	if title := c.FormValue("title"); title != "" {
		post.Title = title
	}
	if description := c.FormValue("description"); description != "" {
		post.Content = description
	}
	if postType := c.FormValue("postType"); postType != "" {
		post.PostType = postType
	}

	if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
		for _, publicID := range post.MediaPublicIDs {
			if err := h.mediaStore.Delete(ctx, publicID); err != nil {
				log.Printf("Error deleting replaced image %s: %v", publicID, err)
			}
		}
		post.MediaUrls = []string{}
		post.MediaPublicIDs = []string{}
		if err := h.attachImages(c, post, form.File["images"]); err != nil {
			return err
		}
	}

	if videoHeader, err := c.FormFile("video"); err == nil && videoHeader != nil {
		if post.VideoPublicID != "" {
			if err := h.mediaStore.DeleteVideo(ctx, post.VideoPublicID); err != nil {
				log.Printf("Error deleting replaced video %s: %v", post.VideoPublicID, err)
			}
		}
		post.VideoUrl = ""
		post.VideoPublicID = ""
		post.VideoDuration = 0
		if err := h.attachVideo(c, post, videoHeader); err != nil {
			return err
		}
	}

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post, its media assets, and its notifications
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	if post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	for _, publicID := range post.MediaPublicIDs {
		if err := h.mediaStore.Delete(ctx, publicID); err != nil {
			log.Printf("Error deleting image %s: %v", publicID, err)
		}
	}
	if post.VideoPublicID != "" {
		if err := h.mediaStore.DeleteVideo(ctx, post.VideoPublicID); err != nil {
			log.Printf("Error deleting video %s: %v", post.VideoPublicID, err)
		}
	}

	if err := h.postRepository.DeletePost(ctx, post.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The post's notifications would otherwise dangle forever
	if err := h.notificationRepo.DeleteByPostID(ctx, post.ID.Hex()); err != nil {
		log.Printf("Error deleting notifications for post %s: %v", post.ID.Hex(), err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SharePost creates a new post that is a share of the original. Sharing
// one's own post, or the same post twice, is rejected.
func (h *PostHandler) SharePost(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	original, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	if original.UserID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot share your own post")
	}
	if original.HasShared(userID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You have already shared this post")
	}

	sharer, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	shared := &models.Post{
		UserID:           userID,
		Username:         sharer.Username,
		PostType:         original.PostType,
		Title:            original.Title,
		Content:          original.Content,
		MediaUrls:        original.MediaUrls,
		OriginalPostID:   original.ID.Hex(),
		OriginalUserID:   original.UserID,
		OriginalUsername: original.Username,
	}

	if err := h.postRepository.CreatePost(ctx, shared); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error sharing post")
	}

	// Second write; not atomic with the first
	original.SharedBy = append(original.SharedBy, userID)
	if err := h.postRepository.UpdatePost(ctx, original); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error sharing post")
	}

	return c.JSON(http.StatusOK, shared)
}

// ToggleSavePost flips the user's membership in the post's saved set
func (h *PostHandler) ToggleSavePost(c echo.Context) error {
	postID := c.Param("id")
	userID := c.Param("userId")

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return postLookupError(err)
	}

	if post.HasSaved(userID) {
		post.SavedBy = remove(post.SavedBy, userID)
	} else {
		post.SavedBy = append(post.SavedBy, userID)
	}

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// GetSavedPosts lists the posts a user has saved
func (h *PostHandler) GetSavedPosts(c echo.Context) error {
	posts, err := h.postRepository.GetPostsSavedBy(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

func postLookupError(err error) error {
	if errors.Is(err, repositories.ErrPostNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
