package types

import (
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/database"
	"github.com/killallgit/fraza-api/internal/services/auth"
	"github.com/killallgit/fraza-api/internal/services/blobstore"
	"github.com/killallgit/fraza-api/internal/services/cache"
	"github.com/killallgit/fraza-api/internal/services/llm"
	"github.com/killallgit/fraza-api/internal/services/profiles"
	"github.com/killallgit/fraza-api/internal/services/scripts"
	"github.com/killallgit/fraza-api/internal/services/studio"
	"github.com/killallgit/fraza-api/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB        *database.DB
	Config    *config.Config
	Logger    *zap.Logger
	Auth      auth.Verifier
	LLM       llm.Generator
	BlobStore blobstore.Store
	Scripts   scripts.Service
	Profiles  profiles.Service
	Studio    studio.Generator

	// Cache holds rendered script details; nil disables response caching
	Cache cache.Cache

	// Version is reported by the root endpoint
	Version string
}

// IsProduction reports whether error details must be hidden from clients
func (d *Dependencies) IsProduction() bool {
	return d != nil && d.Config != nil && d.Config.IsProduction()
}

// Log returns the configured logger or a no-op logger
func (d *Dependencies) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
