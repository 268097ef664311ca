package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// Client calls the Azure Speech text-to-speech REST endpoint
type Client struct {
	httpClient   *http.Client
	endpoint     string
	key          string
	outputFormat string
	userAgent    string
	logger       *zap.Logger
}

// Config holds configuration for the speech client
type Config struct {
	Key          string
	Region       string
	OutputFormat string
	UserAgent    string
	Timeout      time.Duration
	// Endpoint overrides the regional URL
	Endpoint string
}

var _ Synthesizer = (*Client)(nil)

// NewClient creates a new speech client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Region == "" {
		cfg.Region = "swedencentral"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "audio-16khz-128kbitrate-mono-mp3"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FrazaWeb"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", cfg.Region)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		endpoint:     cfg.Endpoint,
		key:          cfg.Key,
		outputFormat: cfg.OutputFormat,
		userAgent:    cfg.UserAgent,
		logger:       logger,
	}
}

// Synthesize renders text to audio in the configured output format
func (c *Client) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	if c.key == "" {
		return nil, apperrors.New(apperrors.ErrCodeSynthesisFailed, "speech key is not set")
	}

	opts = opts.withDefaults()
	ssml := BuildSSML(text, opts)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(ssml))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSynthesisFailed, "creating TTS request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.outputFormat)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSynthesisFailed, "executing TTS request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("speech synthesis rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("voice", opts.VoiceName))
		return nil, apperrors.SynthesisFailed(resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSynthesisFailed, "reading TTS response")
	}

	c.logger.Debug("speech synthesized",
		zap.String("voice", opts.VoiceName),
		zap.Int("text_length", len(text)),
		zap.Int("audio_size", len(audio)))

	return audio, nil
}
