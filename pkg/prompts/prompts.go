package prompts

import (
	"fmt"
	"strings"

	"comicgen/pkg/schema"
)

const ScriptSystemPrompt = `You are a comic storyboard writer. Split the user's story idea into the requested number of consecutive comic panels. Return a single JSON object and nothing else.

The JSON object has one root key, 'panels', an array with exactly one entry per requested panel, in reading order. Each entry must include:
  * 'panelNumber': 1-based position of the panel.
  * 'description': what the reader sees: setting, characters, action and framing. Keep characters visually consistent across panels.
  * 'dialogue' (optional): a short spoken line or caption. Omit it for silent panels.
  * 'mood': the emotional tone in one or two words (e.g. "tense", "joyful").

Keep the story coherent from the first panel to the last and end on a clear beat. Write in English.`

const OptimizeSystemPrompt = `You turn one comic panel script into a single prompt for an image-generation model.

Rules:
- Answer with the prompt text only, in English, no quotes or commentary.
- Describe the scene concretely: subjects, poses, setting, lighting, composition.
- If the panel has dialogue, describe it as a speech bubble containing that text.
- Reflect the mood and end with the given art style keywords.
- Keep it under 120 words and avoid graphic violence or gore.`

// ScriptUserPrompt builds the user turn for script generation.
func ScriptUserPrompt(prompt string, panelCount int, style schema.Style) string {
	return fmt.Sprintf("Story idea: %s\nNumber of panels: %d\nArt style: %s (%s)",
		strings.TrimSpace(prompt), panelCount, style, StyleModifier(style))
}

// OptimizeUserPrompt builds the user turn for prompt optimization.
func OptimizeUserPrompt(script schema.PanelScript, style schema.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Panel %d\nScene: %s\n", script.PanelNumber, script.Description)
	if d := strings.TrimSpace(script.Dialogue); d != "" {
		fmt.Fprintf(&b, "Dialogue: %s\n", d)
	}
	fmt.Fprintf(&b, "Mood: %s\nArt style keywords: %s", script.Mood, StyleModifier(style))
	return b.String()
}
