package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/api/types"
	"github.com/killallgit/fraza-api/internal/services/llm"
)

const (
	maxTokens   = 4096
	temperature = 1
	topP        = 1
)

type configurable interface {
	Configured() bool
}

// Post forwards a conversation to the language model
// @Summary Chat completion
// @Description Forward the messages to the chat deployment and return the raw completion
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body types.ChatRequest true "Conversation"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/chat [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ChatRequest
		if !types.BindJSONOrError(c, &req, "Invalid request") {
			return
		}

		if deps.LLM == nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Azure OpenAI client is not initialized"})
			return
		}
		if cc, ok := deps.LLM.(configurable); ok && !cc.Configured() {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Azure OpenAI client is not initialized"})
			return
		}

		resp, err := deps.LLM.Complete(c.Request.Context(), llm.Request{
			Messages: lo.Map(req.Messages, func(m types.ChatMessage, _ int) llm.Message {
				return llm.Message{Role: m.Role, Content: m.Content}
			}),
			MaxTokens:   maxTokens,
			Temperature: temperature,
			TopP:        topP,
		})
		if err != nil {
			deps.Log().Error("chat completion failed",
				zap.Error(err),
				zap.String("request_id", c.GetString(types.RequestIDKey)),
			)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to generate response"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// RegisterRoutes registers the chat route behind the given middleware
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies, middleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, middleware...), Post(deps))
	router.POST("/chat", handlers...)
}
