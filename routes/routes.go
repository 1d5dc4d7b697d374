package routes

import (
	"net/http"
	"os"

	"dearminder-backend/config"
	"dearminder-backend/controllers"
	"dearminder-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(dispatch *controllers.DispatchController) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://dearminder.app",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Event routes
		events := api.Group("/events")
		{
			events.POST("", controllers.CreateEvent)
			events.GET("", controllers.GetEvents)
			events.GET("/upcoming", controllers.GetUpcomingEvents)
			events.GET("/:id", controllers.GetEvent)
			events.PUT("/:id", controllers.UpdateEvent)
			events.DELETE("/:id", controllers.DeleteEvent)
			events.GET("/:id/logs", controllers.GetEventWishLogs)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", controllers.GetNotifications)
			notifications.PUT("/:id/read", controllers.MarkNotificationRead)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.PUT("/notifications", controllers.UpdateNotifications)
		}
	}

	// Trigger endpoints for the external scheduler. Guarded by a shared
	// token rather than user auth.
	internal := r.Group("/internal", dispatchAuth())
	{
		internal.POST("/dispatch/today", dispatch.RunToday)
		internal.POST("/dispatch/tomorrow", dispatch.RunTomorrow)
	}

	return r
}

func dispatchAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := os.Getenv("DISPATCH_TOKEN")
		if token == "" || c.GetHeader("X-Dispatch-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid dispatch token"})
			return
		}
		c.Next()
	}
}
