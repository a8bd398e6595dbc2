package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/service"
)

// SettingsHandler exposes the category and savings goal settings
type SettingsHandler struct {
	service service.SettingsService
	logger  *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(s service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{service: s, logger: logger}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	settings, err := h.service.UpdateMonthlySavingsGoal(c.Request.Context(), req.MonthlySavingsGoal)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RegisterSettingsRoutes registers settings routes; updates are admin only
func (h *SettingsHandler) RegisterSettingsRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	settingsRoutes := rg.Group("/settings")
	settingsRoutes.Use(authMW)
	{
		settingsRoutes.GET("", h.GetSettings)
		settingsRoutes.PUT("", adminMW, h.UpdateSettings)
	}
}
