package hello

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/fraza-api/api/types"
)

// Get greets the caller
// @Summary Greeting
// @Tags meta
// @Produce json
// @Param name query string false "Name to greet" default(World)
// @Success 200 {object} types.MessageResponse
// @Router /api/hello [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.DefaultQuery("name", "World")
		c.JSON(http.StatusOK, types.MessageResponse{Message: "Hello, " + name + "!"})
	}
}

// RegisterRoutes registers the greeting route
func RegisterRoutes(router gin.IRouter) {
	router.GET("/hello", Get())
}
