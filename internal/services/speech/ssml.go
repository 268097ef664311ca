package speech

import (
	"fmt"
	"math"
	"strings"
)

const defaultVoice = "en-US-AriaNeural"

// voices maps a language prefix to its neural voice
var voices = []struct {
	prefix string
	voice  string
}{
	{"fi", "fi-FI-NooraNeural"},
	{"en", "en-US-AriaNeural"},
	{"ru", "ru-RU-SvetlanaNeural"},
	{"es", "es-ES-ElviraNeural"},
	{"de", "de-DE-KatjaNeural"},
	{"fr", "fr-FR-DeniseNeural"},
	{"it", "it-IT-ElsaNeural"},
	{"pt", "pt-BR-FranciscaNeural"},
	{"ja", "ja-JP-NanamiNeural"},
	{"zh", "zh-CN-XiaoxiaoNeural"},
	{"ko", "ko-KR-SunHiNeural"},
}

// SelectVoice picks a voice for a language tag by case-insensitive prefix.
// Unknown languages get the default English voice.
func SelectVoice(language string) string {
	lang := strings.ToLower(language)
	for _, v := range voices {
		if strings.HasPrefix(lang, v.prefix) {
			return v.voice
		}
	}
	return defaultVoice
}

// RatePercent converts a speed multiplier into an SSML prosody rate
func RatePercent(rate float64) string {
	if rate == 1.0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round((rate-1)*100)))
}

// single pass, so escaped output is never re-escaped
var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters
func EscapeXML(text string) string {
	return xmlReplacer.Replace(text)
}

// BuildSSML renders the synthesis document for text with resolved options
func BuildSSML(text string, opts Options) string {
	opts = opts.withDefaults()
	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' xml:gender='%s' name='%s'><prosody rate='%s'>%s</prosody></voice></speak>",
		opts.Language, opts.Language, opts.Gender, opts.VoiceName, RatePercent(opts.Rate), EscapeXML(text),
	)
}
