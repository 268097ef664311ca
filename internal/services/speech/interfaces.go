package speech

import "context"

// Synthesizer turns text into encoded audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
}

// Options controls a single synthesis call. Zero values take the defaults.
type Options struct {
	VoiceName string
	Language  string
	Gender    string
	Rate      float64
}

const (
	DefaultLanguage = "en-US"
	DefaultGender   = "Female"
	DefaultRate     = 0.8
)

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Gender == "" {
		o.Gender = DefaultGender
	}
	if o.Rate == 0 {
		o.Rate = DefaultRate
	}
	if o.VoiceName == "" {
		o.VoiceName = SelectVoice(o.Language)
	}
	return o
}
