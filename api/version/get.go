package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
)

const defaultVersion = "1.0.0"

// Get describes the service and its entry points
// @Summary Service info
// @Description Service name, version and the main endpoints
// @Tags meta
// @Produce json
// @Success 200 {object} types.RootResponse
// @Router / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := defaultVersion
	if deps != nil && deps.Version != "" && deps.Version != "dev" {
		version = deps.Version
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.RootResponse{
			Message: "Fraza API",
			Version: version,
			Endpoints: map[string]string{
				"health": "/health",
				"api":    "/api/*",
				"docs":   "/docs/index.html",
			},
		})
	}
}
