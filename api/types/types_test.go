package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/fraza-api/pkg/config"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

func TestDependencies(t *testing.T) {
	var nilDeps *Dependencies
	assert.False(t, nilDeps.IsProduction())
	assert.NotNil(t, nilDeps.Log())

	deps := &Dependencies{Config: &config.Config{Environment: "production"}}
	assert.True(t, deps.IsProduction())
}

func TestSendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		env            string
		err            error
		expectedStatus int
		expectedBody   ErrorResponse
	}{
		{
			name:           "validation error uses its own message",
			err:            apperrors.MissingFieldError("script", "learningLanguage"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrorResponse{Error: "Missing required fields: script and learningLanguage"},
		},
		{
			name:           "not found",
			err:            apperrors.New(apperrors.ErrCodeNotFound, "Script not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrorResponse{Error: "Script not found"},
		},
		{
			name:           "duplicate profile",
			err:            apperrors.AlreadyExists("profile", "u1"),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "server error in development exposes cause",
			env:            "development",
			err:            errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrorResponse{Error: "Failed to process script", Message: "connection refused"},
		},
		{
			name:           "server error in production is masked",
			env:            "production",
			err:            apperrors.StorageNotConfigured(),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrorResponse{Error: "Failed to process script", Message: "Something went wrong"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/script/process", nil)

			deps := &Dependencies{Config: &config.Config{Environment: tt.env}}
			SendError(c, deps, "Failed to process script", tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody.Error == "" {
				return
			}
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedBody, body)
		})
	}
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		value  string
		wantOK bool
		want   uint
	}{
		{value: "42", wantOK: true, want: 42},
		{value: "abc"},
		{value: "-1"},
		{value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			got, ok := ParseUintParam(c, "id", "script ID")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.JSONEq(t, `{"error":"Invalid script ID"}`, w.Body.String())
			}
		})
	}
}

func TestProcessResponseFlattensResult(t *testing.T) {
	resp := ProcessResponse{Success: true}
	resp.ScriptID = 7
	resp.Title = "T"

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, true, m["success"])
	assert.Equal(t, float64(7), m["scriptId"])
	assert.Equal(t, "T", m["title"])
}
