package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/database"
	"github.com/killallgit/fraza-api/pkg/config"
)

func TestServeCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "serve command with help",
			args:           []string{"serve", "--help"},
			wantErr:        false,
			expectedOutput: "Start the Fraza API server",
		},
		{
			name:           "serve command with invalid port",
			args:           []string{"serve", "--port", "invalid"},
			wantErr:        true,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(buf.String(), tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, buf.String())
			}
		})
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Failed to find serve command: %v", err)
	}

	if serveCmd.Flags().Lookup("port") == nil {
		t.Error("Expected port flag to be registered")
	}
	if serveCmd.Flags().Lookup("host") == nil {
		t.Error("Expected host flag to be registered")
	}
}

func TestBuildDependencies(t *testing.T) {
	db, err := database.Initialize(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer db.Close()

	cfg := &config.Config{
		Environment: "development",
		Storage:     config.StorageConfig{Container: "audio-files"},
		Auth:        config.AuthConfig{DevEnabled: true, DevToken: "dev"},
	}

	deps := buildDependencies(cfg, db, zap.NewNop())

	if deps.DB != db {
		t.Error("Expected database to be wired")
	}
	if deps.Config != cfg {
		t.Error("Expected config to be wired")
	}
	if deps.Auth == nil || deps.LLM == nil || deps.BlobStore == nil {
		t.Error("Expected auth, llm and blob store to be wired")
	}
	if deps.Scripts == nil || deps.Profiles == nil || deps.Studio == nil {
		t.Error("Expected script, profile and studio services to be wired")
	}
	if deps.Cache != nil {
		t.Error("Expected no response cache when caching is disabled")
	}
	if deps.Version != Version {
		t.Errorf("Expected version %q, got %q", Version, deps.Version)
	}

	// The dev token works outside production
	user, err := deps.Auth.Verify(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Verify(dev token) error = %v", err)
	}
	if user.UID == "" {
		t.Error("Expected dev user to have a uid")
	}
}

func TestBuildDependenciesWithCache(t *testing.T) {
	db, err := database.Initialize(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer db.Close()

	cfg := &config.Config{Cache: config.CacheConfig{Enabled: true, MaxSizeMB: 8}}
	deps := buildDependencies(cfg, db, zap.NewNop())
	if deps.Cache == nil {
		t.Error("Expected response cache to be wired")
	}
}

func TestBuildDependenciesProductionDisablesDevToken(t *testing.T) {
	db, err := database.Initialize(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer db.Close()

	cfg := &config.Config{
		Environment: "production",
		Auth:        config.AuthConfig{DevEnabled: true, DevToken: "dev"},
	}

	deps := buildDependencies(cfg, db, zap.NewNop())
	if _, err := deps.Auth.Verify(context.Background(), "dev"); err == nil {
		t.Error("Expected dev token to be rejected in production")
	}
}
