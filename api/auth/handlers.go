package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/auth"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// Handler manages auth endpoints
type Handler struct {
	verifier auth.Verifier
	logger   *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(verifier auth.Verifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		verifier: verifier,
		logger:   logger,
	}
}

// Profile returns the verified caller
// @Summary Get current user
// @Description Echo the identity carried by the Firebase ID token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.AuthenticatedResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Unauthorized - No token provided"})
		return
	}

	c.JSON(http.StatusOK, types.AuthenticatedResponse{
		Message: "Authenticated successfully",
		User:    user,
	})
}

// AuthMiddleware requires a valid Firebase ID token
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, "Unauthorized - No token provided")
			return
		}

		if h.verifier == nil {
			h.logger.Error("token verifier not configured")
			reject(c, "Unauthorized - Invalid token")
			return
		}

		user, err := h.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			h.logger.Debug("rejected token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			reject(c, "Unauthorized - Invalid token")
			return
		}

		c.Set(types.UserKey, user)
		c.Set("user_id", user.UID)
		c.Next()
	}
}

func reject(c *gin.Context, message string) {
	types.SendError(c, nil, "Unauthorized", apperrors.Unauthorized(message))
	c.Abort()
}

// OptionalAuthMiddleware attaches the user when a valid token is present but never rejects
func (h *Handler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || h.verifier == nil {
			c.Next()
			return
		}

		if user, err := h.verifier.Verify(c.Request.Context(), token); err == nil {
			c.Set(types.UserKey, user)
			c.Set("user_id", user.UID)
		}
		c.Next()
	}
}

// CurrentUser returns the user set by the auth middleware
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(types.UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}
