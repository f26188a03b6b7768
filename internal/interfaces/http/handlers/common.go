// Common helpers shared by the HTTP handlers.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainscope/SupplyRisk-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error onto its HTTP status and writes the
// standard error body.  Server-side causes are masked.
func respondError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	status := errors.HTTPStatusForCode(appErr.Code)
	resp := ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
	}
	if errors.IsClientError(appErr.Code) {
		resp.Detail = appErr.Detail
	} else {
		resp.Message = errors.DefaultMessageForCode(appErr.Code)
	}
	c.JSON(status, resp)
}

// respondBadRequest writes a validation failure for malformed request bodies.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: message,
	})
}
