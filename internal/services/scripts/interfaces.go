package scripts

import (
	"context"

	"github.com/killallgit/fraza-api/internal/models"
	"github.com/killallgit/fraza-api/internal/services/enrichment"
	"github.com/killallgit/fraza-api/internal/services/refiner"
)

// Repository defines the interface for script data access
type Repository interface {
	// Create operations
	CreateScript(ctx context.Context, script *models.Script) error
	CreateChunks(ctx context.Context, chunks []models.ScriptChunk) error

	// Read operations
	ListScriptsByUser(ctx context.Context, userID string) ([]models.ScriptSummary, error)
	GetScript(ctx context.Context, id uint) (*models.Script, error)
	GetChunksByScriptID(ctx context.Context, scriptID uint) ([]models.ScriptChunk, error)
}

// Enricher adds audio URLs to refined chunks
type Enricher interface {
	Enrich(ctx context.Context, chunks []refiner.Chunk, basePath string, langs enrichment.Languages) ([]enrichment.EnrichedChunk, enrichment.Outcome)
}

// Service defines the interface for script business logic
type Service interface {
	Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error)
	List(ctx context.Context, userID string) ([]models.ScriptSummary, error)
	Get(ctx context.Context, id uint) (*models.Script, []models.ScriptChunk, error)
}

// ProcessRequest is the input of the processing workflow
type ProcessRequest struct {
	Script           string `json:"script"`
	LearningLanguage string `json:"learningLanguage"`
	NativeLanguage   string `json:"nativeLanguage,omitempty"`
	UserID           string `json:"userId,omitempty"`
}

// ProcessResult is the output of the processing workflow
type ProcessResult struct {
	ScriptID      uint                       `json:"scriptId"`
	Title         string                     `json:"title"`
	RefinedScript string                     `json:"refinedScript"`
	Chunks        []enrichment.EnrichedChunk `json:"chunks"`
}
