package types

import (
	"github.com/killallgit/fraza-api/internal/models"
	"github.com/killallgit/fraza-api/internal/services/auth"
	"github.com/killallgit/fraza-api/internal/services/scripts"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse carries a single human-readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// RootResponse describes the service
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse reports liveness and database connectivity
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

// AuthenticatedResponse echoes the verified caller
type AuthenticatedResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

// ChatRequest is the body of a chat completion
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,dive"`
}

// ChatMessage is one turn of a chat
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ProcessResponse is returned after a script went through the pipeline
type ProcessResponse struct {
	Success bool `json:"success"`
	scripts.ProcessResult
}

// ScriptListResponse lists a user's scripts, newest first
type ScriptListResponse struct {
	Success bool                   `json:"success"`
	Scripts []models.ScriptSummary `json:"scripts"`
}

// ScriptResponse is a script with its ordered chunks
type ScriptResponse struct {
	Success bool                 `json:"success"`
	Script  *models.Script       `json:"script"`
	Chunks  []models.ScriptChunk `json:"chunks"`
}

// StudioResponse carries a generated script
type StudioResponse struct {
	Success bool   `json:"success"`
	Script  string `json:"script"`
}

// FormatsResponse lists the studio formats by category
type FormatsResponse struct {
	Success    bool                `json:"success"`
	Categories map[string][]string `json:"categories"`
}

// ProfileLookupResponse tells whether a user has a profile
type ProfileLookupResponse struct {
	Exists  bool                `json:"exists"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

// ProfileResponse carries a created profile
type ProfileResponse struct {
	Success bool                `json:"success"`
	Profile *models.UserProfile `json:"profile"`
}
