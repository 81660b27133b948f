package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bloglist-backend/internal/shared/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ========================================
// SUCCESS RESPONSES
// ========================================

// Success writes data as the bare JSON body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// NoContent writes an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ========================================
// ERROR RESPONSES
// ========================================

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorBody{
		Error: message,
		Code:  code,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details map[string]string) {
	c.JSON(statusCode, ErrorBody{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// HandleError renders err according to its apperr.Kind. Unclassified errors
// are logged and answered with a generic 500 so storage details never leak.
func HandleError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")

		InternalServerError(c, "internal server error")
		return
	}

	ErrorWithDetails(c, appErr.Kind.HTTPStatus(), appErr.Code, appErr.Message, appErr.Fields)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
