package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
	"github.com/skilly-social/backend/pkg/cloudinary"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	mediaStore     cloudinary.MediaStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, mediaStore cloudinary.MediaStore) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		mediaStore:     mediaStore,
	}
}

// RegisterPublicUserRoutes registers the unauthenticated user routes
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.POST("/create", h.CreateUser)
}

// RegisterUserRoutes registers the authenticated user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("", h.GetAllUsers)
	g.GET("/id", h.GetUserID)
	g.GET("/role", h.GetUserRole)
	g.PUT("/update", h.UpdateUser)
	g.POST("/upload-profile-pic", h.UploadProfilePicture)
	g.GET("/:id", h.GetUser)
	g.DELETE("/:id", h.DeleteUser)
}

// GetAllUsers retrieves every user
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving users: "+err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser registers a new user with email and password
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exists, err := h.userRepository.ExistsByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating user: "+err.Error())
	}
	if exists {
		return echo.NewHTTPError(http.StatusConflict, "Email already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Bio:      req.Bio,
		Role:     "USER",
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating user: "+err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error retrieving user: "+err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deletes a user by ID
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.userRepository.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting user: "+err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// GetUserID returns the authenticated user's id from the token claims
func (h *UserHandler) GetUserID(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, echo.Map{"userId": userID})
}

// GetUserRole returns the authenticated user's role from the token claims
func (h *UserHandler) GetUserRole(c echo.Context) error {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, echo.Map{"role": claims.Role})
}

// UpdateUser updates the authenticated user's profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating user: "+err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// UploadProfilePicture replaces the authenticated user's profile picture,
// deleting the previous asset from the media store.
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read file")
	}
	defer file.Close()

	// Best-effort removal of the previous picture
	if user.ProfilePicPublicID != "" {
		_ = h.mediaStore.Delete(c.Request().Context(), user.ProfilePicPublicID)
	}

	media, err := h.mediaStore.UploadImage(c.Request().Context(), file, "profile_pictures")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload profile picture")
	}

	user.ProfilePicUrl = media.URL
	user.ProfilePicPublicID = media.PublicID

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating user: "+err.Error())
	}

	return c.JSON(http.StatusOK, user)
}
