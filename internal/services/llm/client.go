package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// Generator produces chat completions
type Generator interface {
	Complete(ctx context.Context, req Request) (*openai.ChatCompletionResponse, error)
}

// Message is a single chat turn
type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// Request describes one completion call
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// Config holds Azure OpenAI settings
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Client talks to an Azure OpenAI deployment
type Client struct {
	client     *openai.Client
	deployment string
	logger     *zap.Logger
}

var _ Generator = (*Client)(nil)

// NewClient creates a client. Without key and endpoint the client is kept
// unconfigured and every call fails with an upstream error.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{deployment: cfg.Deployment, logger: logger}

	if cfg.APIKey == "" || cfg.Endpoint == "" {
		logger.Warn("Azure OpenAI is not configured; completions will fail")
		return c
	}

	clientConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		clientConfig.APIVersion = cfg.APIVersion
	}
	deployment := cfg.Deployment
	clientConfig.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	c.client = openai.NewClientWithConfig(clientConfig)
	return c
}

// Configured reports whether the client can make calls
func (c *Client) Configured() bool {
	return c.client != nil
}

// Complete runs a single chat completion. Nothing is retried.
func (c *Client) Complete(ctx context.Context, req Request) (*openai.ChatCompletionResponse, error) {
	if c.client == nil {
		return nil, apperrors.New(apperrors.ErrCodeUpstreamService, "language model client is not configured")
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	})
	if err != nil {
		appErr := apperrors.UpstreamServiceError("azure openai", err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			appErr.WithDetail("status", apiErr.HTTPStatusCode)
		}
		c.logger.Error("chat completion failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, appErr
	}

	c.logger.Debug("chat completion",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &resp, nil
}

// Text returns the content of the first choice, or "" when there is none
func Text(resp *openai.ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}
