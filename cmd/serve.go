package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/api"
	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/database"
	"github.com/killallgit/fraza-api/internal/services/auth"
	"github.com/killallgit/fraza-api/internal/services/blobstore"
	"github.com/killallgit/fraza-api/internal/services/cache"
	"github.com/killallgit/fraza-api/internal/services/enrichment"
	"github.com/killallgit/fraza-api/internal/services/llm"
	"github.com/killallgit/fraza-api/internal/services/profiles"
	"github.com/killallgit/fraza-api/internal/services/refiner"
	"github.com/killallgit/fraza-api/internal/services/scripts"
	"github.com/killallgit/fraza-api/internal/services/speech"
	"github.com/killallgit/fraza-api/internal/services/studio"
	"github.com/killallgit/fraza-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Fraza API server with the configured settings.

The database schema is brought up to date before the server starts
listening.

Example:
  fraza-api serve
  fraza-api serve --port 9090
  fraza-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Use config values if flags not provided
	host := serverHost
	if host == "" {
		host = cfg.Server.Host
	}
	port := serverPort
	if port == 0 {
		port = cfg.Server.Port
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(logger); err != nil {
		return err
	}

	deps := buildDependencies(cfg, db, logger)

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := api.NewServer(addr, cfg.Server, deps)
	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	logger.Info("server listening", zap.String("address", addr), zap.String("version", Version))

	var runErr error
	select {
	case sig := <-stop:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case runErr = <-serverErr:
		logger.Error("server failed", zap.Error(runErr))
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server gracefully stopped")
	return runErr
}

// buildDependencies creates the process-wide clients and services
func buildDependencies(cfg *config.Config, db *database.DB, logger *zap.Logger) *types.Dependencies {
	llmClient := llm.NewClient(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		Endpoint:   cfg.LLM.Endpoint,
		Deployment: cfg.LLM.Deployment,
		APIVersion: cfg.LLM.APIVersion,
		Timeout:    cfg.LLM.Timeout,
	}, logger.Named("llm"))

	synthesizer := speech.NewClient(speech.Config{
		Key:          cfg.Speech.Key,
		Region:       cfg.Speech.Region,
		OutputFormat: cfg.Speech.OutputFormat,
		UserAgent:    cfg.Speech.UserAgent,
		Timeout:      cfg.Speech.Timeout,
	}, logger.Named("speech"))

	store := newBlobStore(cfg, logger)

	verifier := auth.NewService(auth.Config{
		ProjectID:  cfg.Auth.FirebaseProjectID,
		JWKSURL:    cfg.Auth.JWKSURL,
		CacheTTL:   cfg.Auth.JWKSCacheTTL,
		DevEnabled: cfg.Auth.DevEnabled && !cfg.IsProduction(),
		DevToken:   cfg.Auth.DevToken,
	}, logger.Named("auth"))
	if cfg.Auth.FirebaseProjectID == "" {
		logger.Warn("firebase project id not set; bearer tokens will be rejected")
	}

	pipeline := enrichment.NewPipeline(synthesizer, store, logger.Named("enrichment"))
	scriptService := scripts.NewService(
		scripts.NewRepository(db.DB),
		refiner.NewService(llmClient, logger.Named("refiner")),
		pipeline,
		store,
		logger.Named("scripts"),
	)

	deps := &types.Dependencies{
		DB:        db,
		Config:    cfg,
		Logger:    logger,
		Auth:      verifier,
		LLM:       llmClient,
		BlobStore: store,
		Scripts:   scriptService,
		Profiles:  profiles.NewService(profiles.NewRepository(db.DB), logger.Named("profiles")),
		Studio:    studio.NewService(llmClient, logger.Named("studio")),
		Version:   Version,
	}
	if cfg.Cache.Enabled {
		deps.Cache = cache.NewMemoryCache(cfg.Cache.MaxSizeMB)
	}
	return deps
}

func newBlobStore(cfg *config.Config, logger *zap.Logger) *blobstore.AzureStore {
	store := blobstore.NewAzureStore(blobstore.Config{
		ConnectionString: cfg.Storage.ConnectionString,
		Container:        cfg.Storage.Container,
		SASExpiry:        cfg.Storage.SASExpiry,
	}, logger.Named("blobstore"))
	if !store.Configured() {
		logger.Warn("azure storage not configured; generated audio will be skipped")
	}
	return store
}
