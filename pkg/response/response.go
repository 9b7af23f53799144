package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/shiningprism/prism-auth/pkg/errors"
)

// Success writes the standard JSON envelope with success=true. Extra payload
// fields are merged into the top level alongside success and message.
func Success(c *gin.Context, statusCode int, message string, data gin.H) {
	payload := gin.H{
		"success": true,
		"message": message,
	}
	for key, value := range data {
		payload[key] = value
	}

	c.JSON(statusCode, payload)
}

// OK is shorthand for a 200 envelope without extra payload fields.
func OK(c *gin.Context, message string) {
	Success(c, http.StatusOK, message, nil)
}

// Error writes a JSON error envelope derived from an AppError. Internal error
// details never reach the client.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
