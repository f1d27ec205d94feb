// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "estate-portal/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort before writing so later handlers in the chain do not run.
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = xerrors.Message(err)
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError maps err onto a status code and sends it. Network failures
// are flagged retryable; auth failures never are.
func FromError(c *gin.Context, err error, data ...interface{}) {
	status, message := Classify(err)
	if len(data) == 0 && xerrors.IsNetwork(err) {
		data = append(data, gin.H{"retryable": true})
	}
	Error(c, status, message, err, data...)
}

// Classify returns the HTTP status and a short message for err.
func Classify(err error) (int, string) {
	var apiErr *xerrors.APIError
	switch {
	case errors.Is(err, xerrors.ErrTimeout):
		return http.StatusGatewayTimeout, "upstream request timed out"
	case errors.Is(err, xerrors.ErrNetwork):
		return http.StatusBadGateway, "upstream unreachable"
	case errors.Is(err, xerrors.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict, "resource already exists"
	case errors.As(err, &apiErr), errors.Is(err, xerrors.ErrUpstream):
		return http.StatusBadGateway, "upstream request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message, nil)
}
