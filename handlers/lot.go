package handlers

import (
	"net/http"

	"findmyspot/services/lot"

	"github.com/gin-gonic/gin"
)

// LotHandler exposes the camera detector's occupancy counts.
type LotHandler struct {
	Service lot.LotService
}

// NewLotHandler constructs a LotHandler.
func NewLotHandler(svc lot.LotService) *LotHandler {
	return &LotHandler{Service: svc}
}

// LotStatusRequest is the detector report.
type LotStatusRequest struct {
	ParkedCars      *int `json:"parkedCars" binding:"required,min=0"`
	AvailableSpaces *int `json:"availableSpaces" binding:"required,min=0"`
}

// GetLotStatusHandler returns the latest report.
func (h *LotHandler) GetLotStatusHandler(c *gin.Context) {
	status, err := h.Service.Current(c.Request.Context())
	if err != nil {
		respondError(c, "get lot status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// PutLotStatusHandler stores a detector report.
func (h *LotHandler) PutLotStatusHandler(c *gin.Context) {
	var req LotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := h.Service.Publish(c.Request.Context(), *req.ParkedCars, *req.AvailableSpaces)
	if err != nil {
		respondError(c, "publish lot status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}
