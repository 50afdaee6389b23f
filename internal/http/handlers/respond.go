package handlers

import (
	"net/http"

	"busbooking/internal/domain"
	"busbooking/internal/http/middleware"
	"busbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP outcomes. Validation
// and conflict errors become specific client responses; store outages become a
// generic 503 and are logged with the request id for diagnosis.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsUnauthenticated(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": "/login"})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsDuplicateUser(err):
		c.JSON(http.StatusConflict, gin.H{"error": "already registered", "redirect": "/login"})
	case domain.IsUnavailable(err):
		utils.LogEvent(middleware.GetRequestID(c), "http", "store_unavailable", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		if conflict, ok := domain.IsSeatConflict(err); ok {
			c.JSON(http.StatusConflict, gin.H{
				"error":            "one or more seats are already reserved",
				"conflictingSeats": conflict.Seats,
			})
			return
		}
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
