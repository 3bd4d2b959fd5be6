package httpserver

import (
	"github.com/gin-gonic/gin"
)

type apiErrorJSON struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeAPIError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apiErrorJSON{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(c),
	})
}
