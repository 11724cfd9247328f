package api

import (
	"github.com/gin-gonic/gin"

	"github.com/poornima12/ACME-AIR/internal/apperr"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError renders any error through the typed error taxonomy. Errors
// that carry no code come out as opaque 500s.
func writeError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.HTTPStatus(), errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
