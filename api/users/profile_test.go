package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/database"
	"github.com/killallgit/fraza-api/internal/services/profiles"
	"github.com/killallgit/fraza-api/pkg/config"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(zap.NewNop()))

	deps := &types.Dependencies{
		DB:       db,
		Profiles: profiles.NewService(profiles.NewRepository(db.DB), zap.NewNop()),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api"), deps)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestProfileLifecycle(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/user/profile?userId=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":false}`, w.Body.String())

	w = do(router, http.MethodPost, "/api/user/profile",
		`{"userId":"u1","nativeLanguage":"English","learningLanguage":"Finnish"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created types.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	require.NotNil(t, created.Profile)
	assert.NotZero(t, created.Profile.ID)
	assert.Equal(t, "Finnish", created.Profile.LearningLanguage)

	w = do(router, http.MethodGet, "/api/user/profile?userId=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lookup types.ProfileLookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lookup))
	assert.True(t, lookup.Exists)
	require.NotNil(t, lookup.Profile)
	assert.Equal(t, "English", lookup.Profile.NativeLanguage)

	// Profiles are insert-only
	w = do(router, http.MethodPost, "/api/user/profile",
		`{"userId":"u1","nativeLanguage":"English","learningLanguage":"Spanish"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestProfileValidation(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "lookup without userId",
			method:   http.MethodGet,
			path:     "/api/user/profile",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Missing userId"}`,
		},
		{
			name:     "create with missing fields",
			method:   http.MethodPost,
			path:     "/api/user/profile",
			body:     `{"userId":"u1"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Missing required fields"}`,
		},
		{
			name:     "create with malformed body",
			method:   http.MethodPost,
			path:     "/api/user/profile",
			body:     `{"userId":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
