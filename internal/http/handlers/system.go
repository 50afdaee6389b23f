package handlers

import (
	"net/http"

	intconfig "busbooking/internal/config"

	"github.com/gin-gonic/gin"
)

var env intconfig.Env

// Configure stores runtime settings used when handlers build services.
func Configure(e intconfig.Env) {
	env = e
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not reachable"})
		return
	}
	var count int
	err := intconfig.DB.QueryRowContext(c.Request.Context(), "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "users_in_db": count})
}
