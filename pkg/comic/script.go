package comic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"comicgen/pkg/inference"
	"comicgen/pkg/prompts"
	"comicgen/pkg/schema"
	"comicgen/pkg/utils"
)

// ScriptWriter asks the language model for a panel-by-panel script.
type ScriptWriter struct {
	inf inference.Inferencer
}

func NewScriptWriter(inf inference.Inferencer) *ScriptWriter {
	return &ScriptWriter{inf: inf}
}

// Write always returns exactly n scripts numbered 1..n. fallback is true when
// the model gave nothing usable and every panel is a placeholder.
func (w *ScriptWriter) Write(ctx context.Context, prompt string, n int, style schema.Style) (scripts []schema.PanelScript, fallback bool) {
	logger := log.FromContext(ctx)

	if w.inf == nil {
		return prompts.PlaceholderScripts(prompt, n), true
	}

	out, err := w.inf.Infer(ctx, &inference.Options{
		Schema:     schema.ScriptSchema,
		SchemaName: "comic_script",
		MaxTokens:  1024 * n,
	}, prompts.ScriptSystemPrompt, prompts.ScriptUserPrompt(prompt, n, style))
	if err != nil {
		logger.Warn("script generation failed, using placeholders", "err", err)
		return prompts.PlaceholderScripts(prompt, n), true
	}

	parsed, err := parseScript(out)
	if err != nil {
		logger.Warn("script parse failed, using placeholders", "err", err)
		logger.Debug("model output", "output", utils.LimitStr(out, 500))
		return prompts.PlaceholderScripts(prompt, n), true
	}

	if len(parsed) != n {
		logger.Warn("script panel count mismatch", "want", n, "got", len(parsed))
	}
	scripts = normalizeScripts(parsed, prompt, n)
	if logger.GetLevel() <= log.DebugLevel {
		logger.Debug("script ready", "script", utils.PrettyJSON(scripts))
	}
	return scripts, false
}

func parseScript(out string) ([]schema.PanelScript, error) {
	out = utils.CleanJSON(out)
	if out == "" {
		return nil, errors.New("empty script output")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	panels, ok := raw["panels"]
	if !ok {
		return nil, errors.New("script has no panels array")
	}
	var parsed []schema.PanelScript
	if err := json.Unmarshal(panels, &parsed); err != nil {
		return nil, fmt.Errorf("decoding panels: %w", err)
	}
	if len(parsed) == 0 {
		return nil, errors.New("script panels array is empty")
	}
	return parsed, nil
}

// normalizeScripts renumbers panels 1..n in returned order, drops extras and
// fills gaps or blank fields from the placeholder for that slot.
func normalizeScripts(parsed []schema.PanelScript, prompt string, n int) []schema.PanelScript {
	out := make([]schema.PanelScript, n)
	for i := range out {
		ph := prompts.PlaceholderScript(prompt, i+1, n)
		if i >= len(parsed) {
			out[i] = ph
			continue
		}
		s := parsed[i]
		s.PanelNumber = i + 1
		s.Description = strings.TrimSpace(s.Description)
		s.Dialogue = strings.TrimSpace(s.Dialogue)
		s.Mood = strings.TrimSpace(s.Mood)
		if s.Description == "" {
			s.Description = ph.Description
		}
		if s.Mood == "" {
			s.Mood = ph.Mood
		}
		out[i] = s
	}
	return out
}
