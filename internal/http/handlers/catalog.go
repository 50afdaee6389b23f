package handlers

import (
	"net/http"

	"busbooking/internal/catalog"

	"github.com/gin-gonic/gin"
)

// GET /api/catalog/destinations
func Destinations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"destinations": catalog.Destinations()})
}

// GET /api/catalog/buses
func Buses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"buses": catalog.Offerings()})
}
