package middleware

import (
	"crypto/subtle"
	"net/http"

	"findmyspot/utils"

	"github.com/gin-gonic/gin"
)

// DetectorKeyHeader carries the shared key of the camera detector.
const DetectorKeyHeader = "X-Detector-Key"

// DetectorKeyMiddleware admits only the detector. An empty key rejects everyone.
func DetectorKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(DetectorKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "invalid_detector_key", "Invalid detector key")
			return
		}
		c.Next()
	}
}
