package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/services/llm"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

const (
	DefaultNativeLanguage = "English"

	temperature = 0.7
	maxTokens   = 4000
)

// Chunk is one bilingual phrase
type Chunk struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// RefinedScript is the structured result of a refinement
type RefinedScript struct {
	Title         string  `json:"title"`
	RefinedScript string  `json:"refinedScript"`
	Chunks        []Chunk `json:"chunks"`
}

// Refiner turns a raw script into a titled, chunked and translated script
type Refiner interface {
	Refine(ctx context.Context, script, learningLanguage, nativeLanguage string) (*RefinedScript, error)
}

// Service refines scripts with a language model
type Service struct {
	generator llm.Generator
	logger    *zap.Logger
}

var _ Refiner = (*Service)(nil)

// NewService creates a refiner service
func NewService(generator llm.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, logger: logger}
}

// Refine makes one completion call and validates its structured output.
// An empty nativeLanguage means English.
func (s *Service) Refine(ctx context.Context, script, learningLanguage, nativeLanguage string) (*RefinedScript, error) {
	if nativeLanguage == "" {
		nativeLanguage = DefaultNativeLanguage
	}

	resp, err := s.generator.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: SystemPrompt(nativeLanguage, learningLanguage)},
			{Role: "user", Content: UserPrompt(script, nativeLanguage, learningLanguage)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	refined, err := Parse(llm.Text(resp))
	if err != nil {
		s.logger.Error("failed to parse script processing response", zap.Error(err))
		return nil, err
	}

	s.logger.Info("script refined",
		zap.String("title", refined.Title),
		zap.Int("chunks", len(refined.Chunks)),
		zap.String("learning_language", learningLanguage))

	return refined, nil
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// rawRefined keeps chunks raw so a non-array value can be told apart from a missing one
type rawRefined struct {
	Title         string          `json:"title"`
	RefinedScript string          `json:"refinedScript"`
	Chunks        json.RawMessage `json:"chunks"`
}

// Parse decodes model output into a RefinedScript. Output that is not pure JSON
// is searched for its outermost brace-delimited span. The result must carry a
// non-empty refinedScript and a chunks array. Tag-like and empty chunks are dropped.
func Parse(raw string) (*RefinedScript, error) {
	var parsed rawRefined
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		span := jsonObjectPattern.FindString(raw)
		if span == "" {
			return nil, apperrors.InvalidResponseFormat("no JSON object in response")
		}
		if err := json.Unmarshal([]byte(span), &parsed); err != nil {
			return nil, apperrors.InvalidResponseFormat("response is not valid JSON").WithCause(err)
		}
	}

	if parsed.RefinedScript == "" {
		return nil, apperrors.InvalidResponseFormat("refinedScript is empty")
	}

	trimmed := bytes.TrimSpace(parsed.Chunks)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.InvalidResponseFormat("chunks is not an array")
	}

	var chunks []Chunk
	if err := json.Unmarshal(trimmed, &chunks); err != nil {
		return nil, apperrors.InvalidResponseFormat("chunks are malformed").WithCause(err)
	}

	return &RefinedScript{
		Title:         parsed.Title,
		RefinedScript: parsed.RefinedScript,
		Chunks:        FilterChunks(chunks),
	}, nil
}

// FilterChunks drops chunks whose trimmed original is empty or a bracketed tag such as [SCENE START]
func FilterChunks(chunks []Chunk) []Chunk {
	return lo.Filter(chunks, func(c Chunk, _ int) bool {
		text := strings.TrimSpace(c.Original)
		return text != "" && !(strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"))
	})
}
