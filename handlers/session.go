package handlers

import (
	"errors"
	"io"
	"net/http"

	"findmyspot/middleware"
	"findmyspot/services/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the dashboard, booking and receipt screens.
type SessionHandler struct {
	Service session.SessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(svc session.SessionService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

// FeedbackRequest is the optional body of close and the body of rating.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"max=1000"`
	Rating   int    `json:"rating"`
}

// GetSessionHandler returns the derived session view.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "get session", err)
		return
	}
	view, err := h.Service.CurrentSession(c.Request.Context(), uid)
	if err != nil {
		respondError(c, "get session", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenSessionHandler reserves the slot for the caller.
func (h *SessionHandler) OpenSessionHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "open session", err)
		return
	}
	event, err := h.Service.OpenSession(c.Request.Context(), uid)
	if err != nil {
		respondError(c, "open session", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": event.ID, "event": event})
}

// CloseSessionHandler records the exit, with optional feedback and rating.
func (h *SessionHandler) CloseSessionHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "close session", err)
		return
	}
	// The body is optional; an empty one, chunked or not, decodes to io.EOF.
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	event, err := h.Service.CloseSession(c.Request.Context(), uid, req.Feedback, req.Rating)
	if err != nil {
		respondError(c, "close session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// RateSessionHandler reviews the last closed session.
func (h *SessionHandler) RateSessionHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "rate session", err)
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.Service.RateSession(c.Request.Context(), uid, req.Feedback, req.Rating)
	if err != nil {
		respondError(c, "rate session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// ListEventsHandler returns the event feed grouped by date.
func (h *SessionHandler) ListEventsHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "list events", err)
		return
	}
	groups, err := h.Service.ListEvents(c.Request.Context(), uid)
	if err != nil {
		respondError(c, "list events", err)
		return
	}
	if groups == nil {
		c.JSON(http.StatusOK, gin.H{"groups": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// DeleteEventHandler removes one closed event.
func (h *SessionHandler) DeleteEventHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "delete event", err)
		return
	}
	if err := h.Service.DeleteEvent(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, "delete event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearEventsHandler removes every closed event.
func (h *SessionHandler) ClearEventsHandler(c *gin.Context) {
	uid, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, "clear events", err)
		return
	}
	removed, err := h.Service.ClearClosedEvents(c.Request.Context(), uid)
	if err != nil {
		respondError(c, "clear events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
