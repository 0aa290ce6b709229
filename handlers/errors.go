package handlers

import (
	"errors"
	"net/http"

	"findmyspot/models"
	"findmyspot/services/lot"
	"findmyspot/services/session"
	"findmyspot/services/user"
	"findmyspot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{models.ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
	{session.ErrSessionAlreadyOpen, http.StatusConflict, "session_already_open"},
	{session.ErrNoOpenSession, http.StatusConflict, "no_open_session"},
	{session.ErrEventStillOpen, http.StatusConflict, "event_still_open"},
	{session.ErrNothingToRate, http.StatusConflict, "nothing_to_rate"},
	{session.ErrAlreadyRated, http.StatusConflict, "already_rated"},
	{session.ErrInvalidRating, http.StatusBadRequest, "invalid_rating"},
	{session.ErrVehicleNotRegistered, http.StatusBadRequest, "vehicle_not_registered"},
	{user.ErrPlateAlreadyInUse, http.StatusConflict, "plate_already_in_use"},
	{user.ErrMissingToken, http.StatusBadRequest, "invalid_request"},
	{user.ErrMissingPlate, http.StatusBadRequest, "invalid_request"},
	{lot.ErrNoStatus, http.StatusNotFound, "no_lot_status"},
	{models.ErrNotFound, http.StatusNotFound, "event_not_found"},
	{models.ErrInvalidKey, http.StatusBadRequest, "invalid_key"},
	{models.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
	{models.ErrInvalidRecord, http.StatusInternalServerError, "invalid_record"},
}

// respondError maps a service error to its status and error code.
func respondError(c *gin.Context, op string, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			if k.status >= http.StatusInternalServerError {
				utils.GetLogger().Error(op+" failed", zap.Error(err))
			}
			utils.JSONError(c, k.status, k.code, k.err.Error())
			return
		}
	}
	utils.GetLogger().Error(op+" failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internal", "Internal server error")
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid_request", err.Error())
}
