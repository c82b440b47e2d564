package handlers

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/skylark-app/feedback-backend/errors"
)

// bindJSONOrError binds the request body and reports a validation error on
// failure. Returns false when the caller should bail out.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}
