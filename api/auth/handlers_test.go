package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/fraza-api/api/types"
	authService "github.com/killallgit/fraza-api/internal/services/auth"
)

type verifierFunc func(ctx context.Context, token string) (*authService.User, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (*authService.User, error) {
	return f(ctx, token)
}

var testUser = &authService.User{
	UID:     "user-123",
	Email:   "test@example.com",
	Name:    "Test User",
	Picture: "https://example.com/p.png",
}

func stubVerifier() authService.Verifier {
	return verifierFunc(func(_ context.Context, token string) (*authService.User, error) {
		if token == "good-token" {
			return testUser, nil
		}
		return nil, authService.ErrInvalidToken
	})
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api"), h)
	return router
}

func TestProfileRoute(t *testing.T) {
	router := setupTestRouter(NewHandler(stubVerifier(), nil))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "valid token",
			header:         "Bearer good-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized - No token provided",
		},
		{
			name:           "wrong scheme",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized - No token provided",
		},
		{
			name:           "empty bearer",
			header:         "Bearer ",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized - No token provided",
		},
		{
			name:           "invalid token",
			header:         "Bearer bad-token",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized - Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var body types.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body.Error)
				return
			}

			var body types.AuthenticatedResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Authenticated successfully", body.Message)
			assert.Equal(t, testUser, body.User)
		})
	}
}

func TestAuthMiddleware_NoVerifier(t *testing.T) {
	router := setupTestRouter(NewHandler(nil, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer anything")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(stubVerifier(), nil)

	router := gin.New()
	router.GET("/whoami", h.OptionalAuthMiddleware(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"uid": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": user.UID})
	})

	tests := []struct {
		name   string
		header string
		uid    string
	}{
		{name: "no token", uid: ""},
		{name: "invalid token", header: "Bearer nope", uid: ""},
		{name: "valid token", header: "Bearer good-token", uid: "user-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"uid":"`+tt.uid+`"}`, w.Body.String())
		})
	}
}
