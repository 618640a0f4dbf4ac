package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
)

// LearningPlanHandler handles HTTP requests for learning plans
type LearningPlanHandler struct {
	planRepository repositories.LearningPlanRepository
	userRepository repositories.UserRepository
}

// NewLearningPlanHandler creates a new LearningPlanHandler
func NewLearningPlanHandler(planRepo repositories.LearningPlanRepository, userRepo repositories.UserRepository) *LearningPlanHandler {
	return &LearningPlanHandler{
		planRepository: planRepo,
		userRepository: userRepo,
	}
}

// RegisterLearningPlanRoutes registers learning plan routes
func (h *LearningPlanHandler) RegisterLearningPlanRoutes(g *echo.Group) {
	g.GET("", h.GetAllPlans)
	g.POST("", h.CreatePlan)
	g.GET("/public", h.GetPublicPlans)
	g.GET("/shared/:userId", h.GetSharedPlans)
	g.GET("/user/:userId", h.GetPlansByUser)
	g.GET("/:id", h.GetPlan)
	g.PUT("/:id", h.UpdatePlan)
	g.DELETE("/:id", h.DeletePlan)
	g.POST("/:id/share", h.SharePlan)
}

// GetAllPlans lists every learning plan, newest first
func (h *LearningPlanHandler) GetAllPlans(c echo.Context) error {
	plans, err := h.planRepository.GetAllPlans(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPublicPlans lists the plans marked public
func (h *LearningPlanHandler) GetPublicPlans(c echo.Context) error {
	plans, err := h.planRepository.GetPublicPlans(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

// GetSharedPlans lists the plans shared with a user
func (h *LearningPlanHandler) GetSharedPlans(c echo.Context) error {
	plans, err := h.planRepository.GetPlansSharedWith(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlansByUser lists a user's own plans
func (h *LearningPlanHandler) GetPlansByUser(c echo.Context) error {
	plans, err := h.planRepository.GetPlansByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan retrieves a learning plan by ID
func (h *LearningPlanHandler) GetPlan(c echo.Context) error {
	plan, err := h.planRepository.GetPlanByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return planLookupError(err)
	}
	return c.JSON(http.StatusOK, plan)
}

// CreatePlan creates a learning plan owned by the caller. Topic and resource
// ids are assigned server side.
func (h *LearningPlanHandler) CreatePlan(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateLearningPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	owner, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	plan := &models.LearningPlan{
		UserID:             userID,
		UserName:           owner.Username,
		Title:              req.Title,
		Description:        req.Description,
		Topics:             assignTopicIDs(req.Topics),
		IsPublic:           req.IsPublic,
		CompletionDeadline: req.CompletionDeadline,
	}

	if err := h.planRepository.CreatePlan(ctx, plan); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, plan)
}

// UpdatePlan updates a plan's content. Only the owner may update.
func (h *LearningPlanHandler) UpdatePlan(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateLearningPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	plan, err := h.planRepository.GetPlanByID(ctx, c.Param("id"))
	if err != nil {
		return planLookupError(err)
	}

	if plan.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this plan")
	}

	plan.Title = req.Title
	plan.Description = req.Description
	plan.Topics = assignTopicIDs(req.Topics)
	plan.IsPublic = req.IsPublic
	plan.CompletionDeadline = req.CompletionDeadline

	if err := h.planRepository.UpdatePlan(ctx, plan); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, plan)
}

// DeletePlan deletes a plan. Only the owner may delete.
func (h *LearningPlanHandler) DeletePlan(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	plan, err := h.planRepository.GetPlanByID(ctx, c.Param("id"))
	if err != nil {
		return planLookupError(err)
	}

	if plan.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this plan")
	}

	if err := h.planRepository.DeletePlan(ctx, plan.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// SharePlan appends user ids to the plan's shared list. Only the owner may
// share.
func (h *LearningPlanHandler) SharePlan(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var userIDs []string
	if err := c.Bind(&userIDs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	plan, err := h.planRepository.GetPlanByID(ctx, c.Param("id"))
	if err != nil {
		return planLookupError(err)
	}

	if plan.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to share this plan")
	}

	for _, id := range userIDs {
		if !containsString(plan.SharedWith, id) {
			plan.SharedWith = append(plan.SharedWith, id)
		}
	}

	if err := h.planRepository.UpdatePlan(ctx, plan); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, plan)
}

// assignTopicIDs gives every topic and resource a fresh id
func assignTopicIDs(topics []models.Topic) []models.Topic {
	for i := range topics {
		topics[i].ID = uuid.NewString()
		for j := range topics[i].Resources {
			topics[i].Resources[j].ID = uuid.NewString()
		}
	}
	return topics
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func planLookupError(err error) error {
	if errors.Is(err, repositories.ErrPlanNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Learning plan not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
