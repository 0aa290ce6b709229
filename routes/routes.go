package routes

import (
	"time"

	"findmyspot/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProfileRoutes registers the driver info and vehicle endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profile")
	{
		api.Use(hb.AuthMiddleware)
		api.GET("", hb.GetProfileHandler)
		api.PUT("", hb.UpdateDriverInfoHandler)
		api.PUT("/vehicle", hb.RegisterVehicleHandler)
		api.PUT("/fcm-token", hb.UpdateFCMTokenHandler)
	}
}

// RegisterSessionRoutes registers the parking session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.Use(hb.AuthMiddleware)
		api.GET("", hb.GetSessionHandler)
		api.POST("", hb.OpenSessionHandler)
		api.POST("/close", hb.CloseSessionHandler)
		api.POST("/rating", hb.RateSessionHandler)
	}
}

// RegisterEventRoutes registers the parking event feed endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.Use(hb.AuthMiddleware)
		api.GET("", hb.ListEventsHandler)
		api.DELETE("", hb.ClearEventsHandler)
		api.DELETE("/:id", hb.DeleteEventHandler)
	}
}

// RegisterLotRoutes registers the lot occupancy endpoints. Only the detector may publish.
func RegisterLotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/lot")
	{
		api.GET("/status", hb.GetLotStatusHandler)
		api.PUT("/status", hb.DetectorMiddleware, hb.PutLotStatusHandler)
		if hb.LiveLotStatusHandler != nil {
			api.GET("/live", hb.LiveLotStatusHandler)
		}
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Detector-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterProfileRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterLotRoutes(r, hb)
}
