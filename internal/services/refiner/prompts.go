package refiner

import (
	"strings"
	"text/template"
)

var systemPromptTmpl = template.Must(template.New("system").Parse(`You are an expert script editor and translator specialized in language learning content.
Your goal is to prepare text for audio/voice narration and language practice.

TASKS:
1. Create a Title: Generate a short, descriptive title (5-10 words) that captures the main idea or educational focus of the script.
   - The title should be in {{.Native}}.
   - Make it clear what the student will learn from this content.
   - Focus on the practical scenario or topic (e.g., "Ordering Coffee at a Busy Café", "Comparing Laptop Sizes at Tech Store").
2. "Voicification": Rewrite the input script to be more suitable for voice narration.
   - Make it sound natural and conversational.
   - Improve flow and readability.
   - Keep it in the SAME language as the input (which should be {{.Native}}).
   - Keep descriptive narration but make it PROSAIC, PRAGMATIC and CONCRETE.
   - STRICTLY AVOID poetic, flowery, or overly lyrical descriptions.
   - Focus on clear, observable details useful for language learning (materials, sizes, comparisons, actions).
   - REMOVE technical tags like [SCENE START], [SCENE END].
3. Chunking: Split the rewritten script into meaningful chunks.
   - Chunks should be short phrases or sentences (3-10 words ideal).
   - Suitable for turn-by-turn audio practice.
   - Include both dialogue and narration chunks.
4. Translation: Translate each chunk into {{.Learning}}.
   - The translation should be accurate and natural.

OUTPUT FORMAT:
Return ONLY valid JSON with this structure:
{
  "title": "Short descriptive title in {{.Native}}",
  "refinedScript": "The full rewritten script in {{.Native}} (dialogue + narration, no tags)",
  "chunks": [
    {
      "original": "Chunk in {{.Native}}",
      "translation": "Chunk translated to {{.Learning}}"
    }
  ]
}`))

var userPromptTmpl = template.Must(template.New("user").Parse(`Please process this script.
INPUT LANGUAGE: {{.Native}}
TARGET LEARNING LANGUAGE: {{.Learning}}

SCRIPT:
"{{.Script}}"`))

type promptData struct {
	Native   string
	Learning string
	Script   string
}

func render(t *template.Template, data promptData) string {
	var b strings.Builder
	// Templates are fixed and data is plain strings, so Execute cannot fail
	_ = t.Execute(&b, data)
	return b.String()
}

// SystemPrompt returns the instructions for refining a script
func SystemPrompt(nativeLanguage, learningLanguage string) string {
	return render(systemPromptTmpl, promptData{Native: nativeLanguage, Learning: learningLanguage})
}

// UserPrompt wraps the raw script with its language pair
func UserPrompt(script, nativeLanguage, learningLanguage string) string {
	return render(userPromptTmpl, promptData{Native: nativeLanguage, Learning: learningLanguage, Script: script})
}
