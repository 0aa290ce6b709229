package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the middleware they sit behind.
type HandlerBundle struct {
	// Middleware
	AuthMiddleware     gin.HandlerFunc
	DetectorMiddleware gin.HandlerFunc

	// Profile endpoints
	GetProfileHandler       gin.HandlerFunc
	UpdateDriverInfoHandler gin.HandlerFunc
	RegisterVehicleHandler  gin.HandlerFunc
	UpdateFCMTokenHandler   gin.HandlerFunc

	// Session endpoints
	GetSessionHandler   gin.HandlerFunc
	OpenSessionHandler  gin.HandlerFunc
	CloseSessionHandler gin.HandlerFunc
	RateSessionHandler  gin.HandlerFunc

	// Event feed endpoints
	ListEventsHandler  gin.HandlerFunc
	DeleteEventHandler gin.HandlerFunc
	ClearEventsHandler gin.HandlerFunc

	// Lot endpoints
	GetLotStatusHandler  gin.HandlerFunc
	PutLotStatusHandler  gin.HandlerFunc
	LiveLotStatusHandler gin.HandlerFunc
}
