package handlers

import (
	"net/http"

	"findmyspot/middleware"
	"findmyspot/models"
	"findmyspot/services/user"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the driver info and vehicle screens.
type ProfileHandler struct {
	Service user.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(svc user.ProfileService) *ProfileHandler {
	return &ProfileHandler{Service: svc}
}

type profileResponse struct {
	UID string `json:"uid"`
	*models.UserProfile
}

// FCMTokenRequest registers the device push token.
type FCMTokenRequest struct {
	Token string `json:"fcmToken" binding:"required"`
}

// GetProfileHandler returns the authenticated user's profile.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "get profile", err)
		return
	}
	profile, err := h.Service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{UID: uid, UserProfile: profile})
}

// UpdateDriverInfoHandler saves name, contact number and profile image.
func (h *ProfileHandler) UpdateDriverInfoHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "save driver info", err)
		return
	}
	var req models.DriverInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile, err := h.Service.SaveDriverInfo(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, "save driver info", err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{UID: uid, UserProfile: profile})
}

// RegisterVehicleHandler saves the vehicle used for future sessions.
func (h *ProfileHandler) RegisterVehicleHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "register vehicle", err)
		return
	}
	var req models.VehicleInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile, err := h.Service.RegisterVehicle(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, "register vehicle", err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{UID: uid, UserProfile: profile})
}

// UpdateFCMTokenHandler stores the device token for push notifications.
func (h *ProfileHandler) UpdateFCMTokenHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "update fcm token", err)
		return
	}
	var req FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.UpdateFCMToken(c.Request.Context(), uid, req.Token); err != nil {
		respondError(c, "update fcm token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
