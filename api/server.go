package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/pkg/config"
)

const defaultMaxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	rateLimiter *RateLimiter

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(address string, cfg config.ServerConfig, deps *types.Dependencies) *Server {
	engine := gin.New()

	if deps == nil {
		deps = &types.Dependencies{}
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	// Script processing synthesizes every chunk inside the request
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Minute
	}
	maxHeaderBytes := cfg.MaxHeaderBytes
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = 1 << 20
	}

	return &Server{
		engine:       engine,
		rateLimiter:  NewRateLimiter(),
		dependencies: deps,
		httpServer: &http.Server{
			Addr:           address,
			Handler:        engine,
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return RegisterRoutes(s.engine, s.dependencies, s.rateLimiter)
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	deps := s.dependencies
	security := config.SecurityConfig{EnableCORS: true, EnableRequestID: true, EnableRecovery: true}
	maxBody := int64(defaultMaxBodyBytes)
	if deps.Config != nil {
		security = deps.Config.Security
		if deps.Config.Server.MaxBodyBytes > 0 {
			maxBody = deps.Config.Server.MaxBodyBytes
		}
	}

	if security.EnableRecovery {
		s.engine.Use(Recovery(deps))
	}
	if security.EnableRequestID {
		s.engine.Use(RequestID())
	}
	s.engine.Use(RequestLogger(deps.Log()))
	s.engine.Use(SecureHeaders())
	if security.EnableCORS {
		s.engine.Use(CORS(security))
	}
	s.engine.Use(RequestSizeLimitWithSize(maxBody))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
