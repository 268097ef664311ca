package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apiauth "github.com/killallgit/fraza-api/api/auth"
	"github.com/killallgit/fraza-api/api/chat"
	"github.com/killallgit/fraza-api/api/health"
	"github.com/killallgit/fraza-api/api/hello"
	"github.com/killallgit/fraza-api/api/middleware"
	"github.com/killallgit/fraza-api/api/script"
	"github.com/killallgit/fraza-api/api/scripts"
	"github.com/killallgit/fraza-api/api/studio"
	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/api/users"
	"github.com/killallgit/fraza-api/api/version"
	_ "github.com/killallgit/fraza-api/docs/swagger"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rl *RateLimiter) error {
	if deps == nil {
		return fmt.Errorf("dependencies are nil")
	}
	if rl == nil {
		rl = NewRateLimiter()
	}

	// Public routes (no rate limiting)
	version.RegisterRoutes(engine, deps)
	health.RegisterRoutes(engine, deps)

	// Swagger documentation
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	limits := endpointLimits(deps)
	apiGroup := engine.Group("/api", rl.Limit("default", limits["default"]))

	hello.RegisterRoutes(apiGroup)

	authHandler := apiauth.NewHandler(deps.Auth, deps.Log())
	apiauth.RegisterRoutes(apiGroup, authHandler)

	// Rate limiting runs before token verification so floods never reach the key endpoint
	chat.RegisterRoutes(apiGroup, deps, rl.Limit("chat", limits["chat"]), authHandler.AuthMiddleware())

	if deps.Scripts != nil {
		script.RegisterRoutes(apiGroup, deps, rl.Limit("script", limits["script"]), authHandler.OptionalAuthMiddleware())
		scripts.RegisterRoutes(apiGroup, deps, scriptCache(deps)...)
	} else {
		deps.Log().Warn("script service not configured; script routes disabled")
	}

	if deps.Studio != nil {
		studio.RegisterRoutes(apiGroup, deps, rl.Limit("studio", limits["studio"]))
	} else {
		deps.Log().Warn("studio service not configured; studio routes disabled")
	}

	if deps.Profiles != nil {
		users.RegisterRoutes(apiGroup, deps)
	} else {
		deps.Log().Warn("profile service not configured; user routes disabled")
	}

	return nil
}

// endpointLimits returns requests per minute per route group; zero disables a limit
func endpointLimits(deps *types.Dependencies) map[string]int {
	limits := map[string]int{}
	if deps.Config == nil || !deps.Config.RateLimiting.Enabled {
		return limits
	}
	for name, perMinute := range deps.Config.RateLimiting.Endpoints {
		limits[name] = perMinute
	}
	return limits
}

// scriptCache returns the response cache for script details, if one is configured
func scriptCache(deps *types.Dependencies) []gin.HandlerFunc {
	if deps.Cache == nil {
		return nil
	}
	var ttl time.Duration
	if deps.Config != nil {
		ttl = deps.Config.Cache.ScriptTTL
	}
	return []gin.HandlerFunc{middleware.Cache(middleware.CacheConfig{
		Cache:  deps.Cache,
		TTL:    ttl,
		Logger: deps.Log(),
	})}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		})
	}
}
