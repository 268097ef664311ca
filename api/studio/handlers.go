package studio

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/studio"
)

// Generate writes a practice script for a topic, format and cast
// @Summary Generate a studio script
// @Tags studio
// @Accept json
// @Produce json
// @Param request body studio.Request true "Script brief"
// @Success 200 {object} types.StudioResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/studio/generate [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req studio.Request
		if !types.BindJSONOrError(c, &req, "Invalid request") {
			return
		}

		script, err := deps.Studio.Generate(c.Request.Context(), req)
		if err != nil {
			types.SendError(c, deps, "Failed to generate script", err)
			return
		}

		types.SendSuccess(c, types.StudioResponse{Success: true, Script: script})
	}
}

// Formats lists the formats with dedicated instructions
// @Summary List studio formats
// @Tags studio
// @Produce json
// @Success 200 {object} types.FormatsResponse
// @Router /api/studio/formats [get]
func Formats() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendSuccess(c, types.FormatsResponse{
			Success:    true,
			Categories: studio.FormatCategories,
		})
	}
}

// RegisterRoutes registers studio routes. The middleware guards generation only.
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies, middleware ...gin.HandlerFunc) {
	group := router.Group("/studio")
	group.GET("/formats", Formats())

	handlers := append(append([]gin.HandlerFunc{}, middleware...), Generate(deps))
	group.POST("/generate", handlers...)
}
