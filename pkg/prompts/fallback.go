package prompts

import (
	"fmt"
	"strings"

	"comicgen/pkg/schema"
)

const NeutralMood = "neutral"

// PlaceholderScript is the script used for slot i (1-based) of n when the
// language model gives nothing usable.
func PlaceholderScript(prompt string, i, n int) schema.PanelScript {
	return schema.PanelScript{
		PanelNumber: i,
		Description: fmt.Sprintf("%s (scene %d of %d)", strings.TrimSpace(prompt), i, n),
		Mood:        NeutralMood,
	}
}

// PlaceholderScripts returns n placeholder scripts numbered 1..n.
func PlaceholderScripts(prompt string, n int) []schema.PanelScript {
	out := make([]schema.PanelScript, n)
	for i := range out {
		out[i] = PlaceholderScript(prompt, i+1, n)
	}
	return out
}

// ImagePrompt concatenates a script into an image prompt without any model help.
func ImagePrompt(script schema.PanelScript, style schema.Style) string {
	parts := []string{fmt.Sprintf("Create a comic panel %d: %s", script.PanelNumber, strings.TrimSpace(script.Description))}
	if d := strings.TrimSpace(script.Dialogue); d != "" {
		parts = append(parts, fmt.Sprintf("dialogue: %q", d))
	}
	if m := strings.TrimSpace(script.Mood); m != "" {
		parts = append(parts, m+" mood")
	}
	if mod := StyleModifier(style); mod != "" {
		parts = append(parts, mod)
	}
	parts = append(parts, "comic book style", "clear storytelling")
	return strings.Join(parts, ", ")
}
