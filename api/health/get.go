package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
)

// Database states reported by the health check
const (
	DatabaseConnected     = "connected"
	DatabaseDisconnected  = "disconnected"
	DatabaseNotConfigured = "not configured"
)

// Get handles health check requests
// @Summary Health check
// @Description Liveness with database connectivity
// @Tags meta
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		dbStatus, err := getDatabaseStatus(c, deps)
		response.Database = dbStatus
		if err != nil {
			response.Status = "unhealthy"
			if !deps.IsProduction() {
				response.Error = err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(c *gin.Context, deps *types.Dependencies) (string, error) {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return DatabaseNotConfigured, nil
	}

	if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
		return DatabaseDisconnected, err
	}

	return DatabaseConnected, nil
}
