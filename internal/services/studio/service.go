package studio

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/services/llm"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

const (
	DefaultLanguage = "en"

	temperature = 0.7
	maxTokens   = 2000

	minTopicLength = 3
)

// Generator writes practice scripts from a topic and format
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Service generates scripts with a language model
type Service struct {
	llm    llm.Generator
	logger *zap.Logger
}

var _ Generator = (*Service)(nil)

// NewService creates a studio service
func NewService(generator llm.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: generator, logger: logger}
}

// Generate returns the script text. The request's language falls back to "en".
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if utf8.RuneCountInString(req.Topic) < minTopicLength {
		return "", apperrors.ValidationError("topic", "must be at least 3 characters")
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: SystemPrompt(req.Format, req.Tone, req.Language)},
			{Role: "user", Content: UserPrompt(req)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	script := llm.Text(resp)
	if script == "" {
		return "", apperrors.New(apperrors.ErrCodeUpstreamService, "No script generated")
	}

	s.logger.Info("studio script generated",
		zap.String("format", req.Format),
		zap.String("language", req.Language),
		zap.Int("participants", len(req.Participants)),
		zap.Int("length", len(script)))

	return script, nil
}
