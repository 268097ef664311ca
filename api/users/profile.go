package users

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/profiles"
)

// GetProfile reports whether a user has a profile
// @Summary Look up a profile
// @Tags users
// @Produce json
// @Param userId query string true "User ID"
// @Success 200 {object} types.ProfileLookupResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/user/profile [get]
func GetProfile(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := deps.Profiles.Get(c.Request.Context(), c.Query("userId"))
		if err != nil {
			types.SendError(c, deps, "Internal Server Error", err)
			return
		}

		if profile == nil {
			types.SendSuccess(c, types.ProfileLookupResponse{Exists: false})
			return
		}
		types.SendSuccess(c, types.ProfileLookupResponse{Exists: true, Profile: profile})
	}
}

// CreateProfile stores a user's language pair
// @Summary Create a profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body profiles.CreateRequest true "Profile"
// @Success 201 {object} types.ProfileResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/user/profile [post]
func CreateProfile(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profiles.CreateRequest
		if !types.BindJSONOrError(c, &req, "Invalid request body") {
			return
		}

		profile, err := deps.Profiles.Create(c.Request.Context(), req)
		if err != nil {
			types.SendError(c, deps, "Internal Server Error", err)
			return
		}

		types.SendCreated(c, types.ProfileResponse{Success: true, Profile: profile})
	}
}

// RegisterRoutes registers user profile routes
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies) {
	group := router.Group("/user")
	group.GET("/profile", GetProfile(deps))
	group.POST("/profile", CreateProfile(deps))
}
