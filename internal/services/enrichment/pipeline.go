package enrichment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/services/blobstore"
	"github.com/killallgit/fraza-api/internal/services/refiner"
	"github.com/killallgit/fraza-api/internal/services/speech"
)

const (
	LearningRate = 0.8
	NativeRate   = 1.0

	audioContentType = "audio/mpeg"
)

// Languages is the language pair used for synthesis
type Languages struct {
	Learning string
	Native   string
}

// EnrichedChunk is a chunk with the URLs of whichever audio sides succeeded
type EnrichedChunk struct {
	refiner.Chunk
	OriginalAudioURL    *string `json:"originalAudioUrl,omitempty"`
	TranslationAudioURL *string `json:"translationAudioUrl,omitempty"`
}

// Outcome counts synthesis-and-store sub-steps
type Outcome struct {
	Succeeded int
	Failed    int
}

// Pipeline adds audio to chunks one at a time
type Pipeline struct {
	synth  speech.Synthesizer
	store  blobstore.Store
	logger *zap.Logger
}

// NewPipeline creates an enrichment pipeline
func NewPipeline(synth speech.Synthesizer, store blobstore.Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{synth: synth, store: store, logger: logger}
}

// Enrich synthesizes and stores learning then native audio for every chunk, in
// order. Failures never abort the run: the affected URL stays nil and the next
// side or chunk is processed. The result has the same length and order as chunks.
func (p *Pipeline) Enrich(ctx context.Context, chunks []refiner.Chunk, basePath string, langs Languages) ([]EnrichedChunk, Outcome) {
	out := make([]EnrichedChunk, len(chunks))
	var outcome Outcome

	for i, chunk := range chunks {
		n := i + 1
		out[i] = EnrichedChunk{Chunk: chunk}

		if chunk.Translation != "" {
			name := ObjectName(basePath, n, "learning")
			url, err := p.side(ctx, chunk.Translation, langs.Learning, LearningRate, name)
			if err != nil {
				outcome.Failed++
				p.logger.Warn("learning audio failed",
					zap.Int("chunk", n),
					zap.String("blob", name),
					zap.Error(err))
			} else {
				outcome.Succeeded++
				out[i].TranslationAudioURL = &url
			}
		}

		if chunk.Original != "" {
			name := ObjectName(basePath, n, "native")
			url, err := p.side(ctx, chunk.Original, langs.Native, NativeRate, name)
			if err != nil {
				outcome.Failed++
				p.logger.Warn("native audio failed",
					zap.Int("chunk", n),
					zap.String("blob", name),
					zap.Error(err))
			} else {
				outcome.Succeeded++
				out[i].OriginalAudioURL = &url
			}
		}
	}

	p.logger.Info("audio enrichment finished",
		zap.String("base_path", basePath),
		zap.Int("chunks", len(chunks)),
		zap.Int("succeeded", outcome.Succeeded),
		zap.Int("failed", outcome.Failed))

	return out, outcome
}

func (p *Pipeline) side(ctx context.Context, text, language string, rate float64, name string) (string, error) {
	audio, err := p.synth.Synthesize(ctx, text, speech.Options{
		Language:  language,
		VoiceName: speech.SelectVoice(language),
		Rate:      rate,
	})
	if err != nil {
		return "", err
	}
	return p.store.Store(ctx, audio, name, audioContentType)
}

// BasePath is the blob folder holding a script's audio
func BasePath(userID string, scriptID uint) string {
	return fmt.Sprintf("%s/script_%d", userID, scriptID)
}

// ObjectName names the audio object for side ("native" or "learning") of the n-th chunk
func ObjectName(basePath string, n int, side string) string {
	return fmt.Sprintf("%s/chunk_%d_%s.mp3", basePath, n, side)
}
