package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/service"
)

// GoalHandler handles savings goal requests
type GoalHandler struct {
	service service.GoalService
	logger  *zap.Logger
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(s service.GoalService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{service: s, logger: logger}
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req model.SavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	goal, err := h.service.CreateGoal(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create savings goal")
		return
	}
	c.JSON(http.StatusCreated, model.NewSavingsGoalView(*goal))
}

// ListGoals returns every goal. With resync=true the saved amounts are
// recomputed from the transactions first.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	var (
		goals []model.SavingsGoal
		err   error
	)
	if c.Query("resync") == "true" {
		goals, err = h.service.Recalculate(c.Request.Context())
	} else {
		goals, err = h.service.ListGoals(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve savings goals")
		return
	}
	c.JSON(http.StatusOK, goalViews(goals))
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	goal, err := h.service.GetGoal(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve savings goal")
		return
	}
	c.JSON(http.StatusOK, model.NewSavingsGoalView(*goal))
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	var req model.SavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	goal, err := h.service.UpdateGoal(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update savings goal")
		return
	}
	c.JSON(http.StatusOK, model.NewSavingsGoalView(*goal))
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := goalIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteGoal(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete savings goal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Savings goal deleted successfully"})
}

// RecalculateGoals is the admin trigger for a full resync
func (h *GoalHandler) RecalculateGoals(c *gin.Context) {
	goals, err := h.service.Recalculate(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to recalculate savings goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Savings goals recalculated",
		"savings_goals": goalViews(goals),
	})
}

func goalViews(goals []model.SavingsGoal) []model.SavingsGoalView {
	views := make([]model.SavingsGoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, model.NewSavingsGoalView(g))
	}
	return views
}

// RegisterGoalRoutes registers savings goal routes and the admin resync
func (h *GoalHandler) RegisterGoalRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	goalRoutes := rg.Group("/goals")
	goalRoutes.Use(authMW)
	{
		goalRoutes.POST("", h.CreateGoal)
		goalRoutes.GET("", h.ListGoals)
		goalRoutes.GET("/:id", h.GetGoal)
		goalRoutes.PUT("/:id", h.UpdateGoal)
		goalRoutes.DELETE("/:id", h.DeleteGoal)
	}

	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.POST("/goals/recalculate", h.RecalculateGoals)
	}
}
