package comic

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"comicgen/pkg/inference"
	"comicgen/pkg/prompts"
	"comicgen/pkg/schema"
	"comicgen/pkg/utils"
)

const DefaultMaxPromptTokens = 400

// Optimizer rewrites a panel script into an image-model prompt.
type Optimizer struct {
	inf         inference.Inferencer
	maxTokens   int
	countTokens func(string) int
}

func NewOptimizer(inf inference.Inferencer, maxTokens int) *Optimizer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxPromptTokens
	}
	return &Optimizer{
		inf:         inf,
		maxTokens:   maxTokens,
		countTokens: utils.NumTokens,
	}
}

// Optimize never fails: any model problem yields the concatenated prompt.
func (o *Optimizer) Optimize(ctx context.Context, script schema.PanelScript, style schema.Style) string {
	fallback := prompts.ImagePrompt(script, style)
	if o.inf == nil {
		return fallback
	}
	logger := log.FromContext(ctx).With("panel", script.PanelNumber)

	out, err := o.inf.Infer(ctx, &inference.Options{MaxTokens: o.maxTokens * 2},
		prompts.OptimizeSystemPrompt, prompts.OptimizeUserPrompt(script, style))
	if err != nil {
		logger.Warn("prompt optimization failed, using concatenated prompt", "err", err)
		return fallback
	}

	out = cleanPrompt(out)
	if out == "" {
		logger.Warn("prompt optimization returned nothing, using concatenated prompt")
		return fallback
	}
	if n := o.countTokens(out); n > o.maxTokens {
		logger.Warn("optimized prompt too long, using concatenated prompt", "tokens", n, "max", o.maxTokens)
		return fallback
	}
	return out
}

func cleanPrompt(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "<think>") {
		if idx := strings.LastIndex(s, "</think>"); idx != -1 {
			s = strings.TrimSpace(s[idx+len("</think>"):])
		}
	}
	s = strings.Trim(s, "`\"'")
	return strings.TrimSpace(s)
}
