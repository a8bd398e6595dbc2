package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/service"
)

// ReportHandler serves period reports
type ReportHandler struct {
	service  service.ReportService
	pageSize int
	logger   *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s service.ReportService, pageSize int, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, pageSize: pageSize, logger: logger}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page", h.pageSize)
	if !ok {
		return
	}
	perPage = min(perPage, maxPerPage)

	view, err := h.service.GenerateReport(c.Request.Context(), model.ReportRequest{
		Period:      c.Query("period"),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
		SearchQuery: c.Query("search_query"),
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RegisterReportRoutes registers report routes
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/reports", authMW, h.GetReport)
}
