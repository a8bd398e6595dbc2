package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
)

// respondError maps service errors onto status codes. Validation failures carry
// their advisory message back to the caller; anything unexpected is logged and
// answered with the generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error, generic string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(generic, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}

// maxPerPage bounds the per_page query parameter
const maxPerPage = 500

// queryInt reads an optional positive integer query parameter
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid '" + key + "' parameter, expected a positive integer"})
		return 0, false
	}
	return n, true
}

func goalIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid savings goal ID"})
		return 0, false
	}
	return id, true
}
