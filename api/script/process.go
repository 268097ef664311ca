package script

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apiauth "github.com/killallgit/fraza-api/api/auth"
	"github.com/killallgit/fraza-api/api/middleware"
	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/scripts"
)

// Process runs a raw script through refinement, chunking and audio synthesis
// @Summary Process a script
// @Description Refine the script, split it into bilingual chunks, synthesize audio for each side and persist everything
// @Tags scripts
// @Accept json
// @Produce json
// @Param request body scripts.ProcessRequest true "Script to process"
// @Success 200 {object} types.ProcessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/script/process [post]
func Process(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scripts.ProcessRequest
		if !types.BindJSONOrError(c, &req, "Invalid request body") {
			return
		}
		// A body userId wins; otherwise a verified bearer token names the owner
		if req.UserID == "" {
			if user, ok := apiauth.CurrentUser(c); ok {
				req.UserID = user.UID
			}
		}

		result, err := deps.Scripts.Process(c.Request.Context(), req)
		if err != nil {
			types.SendError(c, deps, "Failed to process script", err)
			return
		}

		detailPath := fmt.Sprintf("/api/scripts/%d", result.ScriptID)
		if err := middleware.Invalidate(c.Request.Context(), deps.Cache, detailPath); err != nil {
			deps.Log().Warn("failed to invalidate cached script",
				zap.Uint("script_id", result.ScriptID),
				zap.String("request_id", c.GetString(types.RequestIDKey)),
				zap.Error(err))
		}

		types.SendSuccess(c, types.ProcessResponse{
			Success:       true,
			ProcessResult: *result,
		})
	}
}

// RegisterRoutes registers script processing routes
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies, handlers ...gin.HandlerFunc) {
	group := router.Group("/script", handlers...)
	group.POST("/process", Process(deps))
}
