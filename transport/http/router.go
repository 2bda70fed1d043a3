package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/siws/ports"
	"github.com/layer-3/siws/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, identity ports.IdentityStore, sessions ports.SessionTransport) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService, identity, sessions)

	// SIWS routes
	siws := router.Group("/siws")
	{
		siws.POST("/start", handlers.Start)
		siws.POST("/verify", handlers.Verify)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(SessionMiddleware(identity))
	{
		api.GET("/me", handlers.Me)
	}

	return router
}
