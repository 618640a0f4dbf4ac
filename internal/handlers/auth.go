package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/oauth"
	"github.com/skilly-social/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	providers      map[string]oauth.Provider
	usedCodes      *oauth.CodeStore
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, providers map[string]oauth.Provider, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		providers:      providers,
		usedCodes:      oauth.NewCodeStore(10 * time.Minute),
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/google", h.OAuthLogin("google"))
	g.POST("/github", h.OAuthLogin("github"))
	g.GET("/user-details", h.UserDetails)
}

// Login handles password authentication
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// OAuthTokenRequest carries the single-use authorization code from the client
type OAuthTokenRequest struct {
	Code string `json:"code" validate:"required"`
}

// OAuthLogin handles the authorization-code flow for the named provider.
// The code is claimed before the exchange so a replay is rejected up front.
func (h *AuthHandler) OAuthLogin(providerName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		provider, ok := h.providers[providerName]
		if !ok {
			return echo.NewHTTPError(http.StatusServiceUnavailable, providerName+" login is not configured")
		}

		var req OAuthTokenRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if !h.usedCodes.Claim(req.Code) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "code_already_used",
				"message": "This authorization code has already been used. Please try logging in again.",
			})
		}

		ctx := c.Request().Context()
		token, err := provider.Exchange(ctx, req.Code)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Failed to obtain access token from "+providerName)
		}

		profile, err := provider.FetchProfile(ctx, token)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed: "+err.Error())
		}

		user, err := h.findOrCreateUser(c, profile)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed: "+err.Error())
		}

		jwtToken, err := h.generateJWT(user)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
		}

		return c.JSON(http.StatusOK, echo.Map{"user": user, "token": jwtToken})
	}
}

// findOrCreateUser looks up the local account by the provider-asserted email,
// creating an OAuth-only account on first login.
func (h *AuthHandler) findOrCreateUser(c echo.Context, profile *oauth.Profile) (*models.User, error) {
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		Username:      profile.Name,
		Email:         profile.Email,
		ProfilePicUrl: profile.PictureURL,
		Role:          "USER",
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UserDetails introspects the presented token and returns its identity claims
func (h *AuthHandler) UserDetails(c echo.Context) error {
	tokenString := middleware.ExtractToken(c)
	if tokenString == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
	}

	claims, err := middleware.ParseToken(tokenString, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":   claims.UserID,
		"userRole": claims.Role,
	})
}

// generateJWT generates a session token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
