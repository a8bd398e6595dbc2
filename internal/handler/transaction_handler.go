package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/service"
)

// TransactionHandler handles transaction related requests
type TransactionHandler struct {
	service  service.TransactionService
	pageSize int
	logger   *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s service.TransactionService, pageSize int, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{service: s, pageSize: pageSize, logger: logger}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	transaction, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page", h.pageSize)
	if !ok {
		return
	}
	perPage = min(perPage, maxPerPage)

	result, err := h.service.ListTransactions(c.Request.Context(), model.TransactionFilters{
		SearchQuery: c.Query("search_query"),
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve transactions")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.service.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	transaction, err := h.service.UpdateTransaction(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func transactionIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return "", false
	}
	return id.String(), true
}

// RegisterTransactionRoutes registers transaction routes
func (h *TransactionHandler) RegisterTransactionRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	txRoutes := rg.Group("/transactions")
	txRoutes.Use(authMW)
	{
		txRoutes.POST("", h.CreateTransaction)
		txRoutes.GET("", h.ListTransactions)
		txRoutes.GET("/:id", h.GetTransactionByID)
		txRoutes.PUT("/:id", h.UpdateTransaction)
		txRoutes.DELETE("/:id", h.DeleteTransaction)
	}
}
