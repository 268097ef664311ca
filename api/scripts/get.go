package scripts

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
)

// List returns a user's scripts with chunk counts, newest first
// @Summary List scripts
// @Tags scripts
// @Produce json
// @Param userId query string true "Owner of the scripts"
// @Success 200 {object} types.ScriptListResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/scripts/list [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := deps.Scripts.List(c.Request.Context(), c.Query("userId"))
		if err != nil {
			types.SendError(c, deps, "Failed to fetch scripts", err)
			return
		}

		types.SendSuccess(c, types.ScriptListResponse{
			Success: true,
			Scripts: summaries,
		})
	}
}

// GetByID returns a script with its chunks in sequence order
// @Summary Get a script
// @Tags scripts
// @Produce json
// @Param id path int true "Script ID"
// @Success 200 {object} types.ScriptResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/scripts/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id", "script ID")
		if !ok {
			return
		}

		script, chunks, err := deps.Scripts.Get(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, deps, "Failed to fetch script", err)
			return
		}

		// Chunks are written after audio synthesis, so an empty list may still fill in
		if len(chunks) == 0 {
			c.Header("Cache-Control", "no-store")
		}

		types.SendSuccess(c, types.ScriptResponse{
			Success: true,
			Script:  script,
			Chunks:  chunks,
		})
	}
}

// RegisterRoutes registers script read routes. The middleware wraps the
// detail route only, since a script with its chunks stored never changes.
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies, detail ...gin.HandlerFunc) {
	group := router.Group("/scripts")
	group.GET("/list", List(deps))

	handlers := append(append([]gin.HandlerFunc{}, detail...), GetByID(deps))
	group.GET("/:id", handlers...)
}
