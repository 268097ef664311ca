package studio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/studio"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req studio.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

const validBody = `{
	"topic": "Ordering coffee",
	"format": "dialogue",
	"tone": "casual",
	"language": "fi",
	"participants": [
		{"id": "p1", "name": "Aino", "role": "barista"},
		{"id": "p2", "name": "Sam", "role": "customer", "traits": ["shy"]}
	]
}`

func setupRouter(deps *types.Dependencies, middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api"), deps, middleware...)
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/studio/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGenerate(t *testing.T) {
	t.Run("returns the generated script", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req studio.Request) bool {
			return req.Topic == "Ordering coffee" && req.Format == "dialogue" && len(req.Participants) == 2
		})).Return("Aino: Hei!\nSam: Hei, yksi kahvi.", nil)

		w := post(setupRouter(&types.Dependencies{Studio: gen}), validBody)

		require.Equal(t, http.StatusOK, w.Code)
		var resp types.StudioResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Aino: Hei!\nSam: Hei, yksi kahvi.", resp.Script)
		gen.AssertExpectations(t)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"malformed json", `{"topic":`},
		{"topic too short", `{"topic":"ab","format":"dialogue","tone":"casual","participants":[{"id":"1","name":"A","role":"r"}]}`},
		{"missing participants", `{"topic":"Ordering coffee","format":"dialogue","tone":"casual"}`},
		{"empty participants", `{"topic":"Ordering coffee","format":"dialogue","tone":"casual","participants":[]}`},
		{"participant without name", `{"topic":"Ordering coffee","format":"dialogue","tone":"casual","participants":[{"id":"1","role":"r"}]}`},
		{"missing format", `{"topic":"Ordering coffee","tone":"casual","participants":[{"id":"1","name":"A","role":"r"}]}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			w := post(setupRouter(&types.Dependencies{Studio: gen}), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"Invalid request"`)
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}

	t.Run("generation failure", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return("", apperrors.New(apperrors.ErrCodeUpstreamService, "No script generated"))

		w := post(setupRouter(&types.Dependencies{Studio: gen}), validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"Failed to generate script"`)
	})

	t.Run("middleware guards generation", func(t *testing.T) {
		gen := new(MockGenerator)
		deny := func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
		}

		w := post(setupRouter(&types.Dependencies{Studio: gen}, deny), validBody)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("upstream error without app code", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

		w := post(setupRouter(&types.Dependencies{Studio: gen}), validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to generate script","message":"timeout"}`, w.Body.String())
	})
}

func TestFormats(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	router := setupRouter(&types.Dependencies{}, deny)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/studio/formats", nil))

	// Formats is public even when generation is guarded
	require.Equal(t, http.StatusOK, w.Code)
	var resp types.FormatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, studio.FormatCategories, resp.Categories)
}
