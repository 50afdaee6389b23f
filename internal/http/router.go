package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busbooking/internal/config"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/http/middleware"
	"busbooking/internal/repositories"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Configure(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth{
		Sessions: services.SessionService{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL},
		Users:    repositories.UserRepository{DB: intconfig.DB},
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		cat := api.Group("/catalog")
		cat.GET("/destinations", h.Destinations)
		cat.GET("/buses", h.Buses)

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/federated", h.FederatedLogin)

		// Everything touching the booking ledger requires an authenticated
		// principal.
		gated := api.Group("")
		gated.Use(auth.RequireAuth())
		gated.GET("/seats", h.ReservedSeats)

		bookings := gated.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/ticket", h.GetTicket)
	}

	return r
}
