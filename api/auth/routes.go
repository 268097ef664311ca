package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the authenticated identity route
func RegisterRoutes(router gin.IRouter, h *Handler) {
	router.GET("/profile", h.AuthMiddleware(), h.Profile)
}
