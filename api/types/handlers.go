package types

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// ParseUintParam extracts and parses a URL parameter as uint
// Returns the parsed value and sends error response if parsing fails
func ParseUintParam(c *gin.Context, paramName, label string) (uint, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.ParseUint(paramStr, 10, 32)
	if err != nil || value == 0 {
		SendBadRequest(c, "Invalid "+label)
		return 0, false
	}
	return uint(value), true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}, label string) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   label,
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendError renders err using its AppError code.
// Client errors carry their own message. Server errors are reported under
// label, with the cause as message outside production.
func SendError(c *gin.Context, deps *Dependencies, label string, err error) {
	status := apperrors.GetHTTPCode(err)
	if status < http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{Error: apperrors.Message(err)})
		return
	}

	deps.Log().Error(label,
		zap.Error(err),
		zap.String("code", string(apperrors.GetCode(err))),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(RequestIDKey)),
	)

	message := err.Error()
	if deps.IsProduction() {
		message = "Something went wrong"
	}
	c.JSON(status, ErrorResponse{Error: label, Message: message})
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RequestIDKey is the context key holding the request id
const RequestIDKey = "request_id"

// UserKey is the context key holding the verified *auth.User
const UserKey = "user"
