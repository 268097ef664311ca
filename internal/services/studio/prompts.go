package studio

import (
	"fmt"
	"strings"
)

var formatInstructions = map[string]string{
	"dialogue":     "Write a natural conversation between the specified speakers. Use realistic dialogue tags and reactions.",
	"phone-call":   `Write a phone conversation. Include typical phone phrases like greetings, "Can you hear me?", etc.`,
	"interview":    "Write an interview with clear questions and detailed answers. The interviewer should probe deeper.",
	"debate":       "Write a debate with opposing viewpoints. Each speaker should challenge the other's arguments.",
	"negotiation":  "Write a negotiation scene with give-and-take. Include offers, counteroffers, and compromises.",
	"monologue":    "Write a first-person narrative or speech. Make it engaging and personal.",
	"voicemail":    "Write a voicemail message. Keep it concise, include reason for calling and callback request.",
	"presentation": "Write a formal presentation with clear structure: introduction, main points, conclusion.",
	"tutorial":     "Write step-by-step instructions. Be clear, sequential, and include helpful tips.",
	"podcast":      "Write a casual podcast segment. Include natural speech patterns, filler words, and enthusiasm.",
	"news":         "Write a news report. Use formal language, report facts, include who/what/when/where/why.",
	"announcement": "Write a public announcement. Be clear, authoritative, and include necessary details.",
}

// IsKnownFormat reports whether format has dedicated instructions
func IsKnownFormat(format string) bool {
	_, ok := formatInstructions[format]
	return ok
}

func structureSection(format string) string {
	if IsKnownFormat(format) {
		return strings.Join([]string{
			"STRUCTURE:",
			"- Include a brief, atmospheric scene description in parentheses at the beginning (setting the scene, describing initial actions).",
			"- For dialogues/interactions, include occasional action descriptions in parentheses between lines where appropriate.",
			"- DO NOT use [SCENE START] or [SCENE END] tags.",
		}, "\n")
	}
	return strings.Join([]string{
		"STRUCTURE:",
		fmt.Sprintf("- Follow the typical structure for a %s.", format),
		"- DO NOT use [SCENE START] or [SCENE END] tags.",
		"- If it is a written format (like a post, email, article), just provide the content directly.",
	}, "\n")
}

// SystemPrompt builds the generation instructions for a format, tone and language
func SystemPrompt(format, tone, language string) string {
	instruction, ok := formatInstructions[format]
	if !ok {
		instruction = fmt.Sprintf("Write content in the format of a %s. Adhere to the conventions and style typical for this format.", format)
	}
	if language == "" {
		language = "English"
	}

	return fmt.Sprintf(`You are a language learning content creator specializing in %s.

LANGUAGE: %s (Write the content in this language.)

TONE: %s

FORMAT: %s

%s

VOCABULARY & STYLE:
- Use clear, practical, and descriptive language suitable for language learners.
- Avoid overly poetic, flowery, or abstract descriptions. Focus on concrete details and actions.
- Make it authentic and educational, but prioritize clarity over literary flair.
- Use idioms and phrasal verbs naturally where appropriate for the level.
- Incorporate common discourse markers and transition phrases.
- Ensure the language sounds natural for the chosen format.
- If generating dialogue/script: Format clearly with speaker names in CAPS followed by colon.
- If generating written text: Use appropriate formatting (paragraphs, emojis for social media, etc.).

GUIDELINES:
- Create engaging, realistic content that language learners will enjoy
- Use appropriate vocabulary for the level
- Make it culturally relevant and modern
- Keep it authentic to the requested format

Output only the content, nothing else.`, format, language, tone, instruction, structureSection(format))
}

// UserPrompt describes the topic, speakers and context of the script
func UserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s about: %s\n\n", req.Format, req.Topic)

	switch len(req.Participants) {
	case 0:
	case 1:
		p := req.Participants[0]
		fmt.Fprintf(&b, "SPEAKER: %s (%s)\n\n", p.Name, p.Role)
	default:
		b.WriteString("SPEAKERS:\n")
		for _, p := range req.Participants {
			fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Role)
		}
		b.WriteString("\n")
	}

	if req.Context != "" {
		fmt.Fprintf(&b, "CONTEXT: %s\n\n", req.Context)
	}

	fmt.Fprintf(&b, "Make it %s in tone.", req.Tone)
	return b.String()
}
