package comic

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"comicgen/pkg/inference"
	"comicgen/pkg/safety"
	"comicgen/pkg/schema"
)

type Config struct {
	// Concurrency bounds panels processed at once; <= 0 means all.
	Concurrency     int
	MaxPromptTokens int
	// ImageRate is the process-wide image calls per second; <= 0 means unlimited.
	ImageRate float64
	Policy    safety.Policy
}

type Request struct {
	Prompt     string
	Style      schema.Style
	PanelCount int
}

type Result struct {
	Scripts []schema.PanelScript
	// Prompts holds the image prompt that produced each image.
	Prompts         []string
	Images          []*inference.Image
	FallbackScripts bool
	Elapsed         time.Duration
}

// Generator runs the whole pipeline for one comic.
type Generator struct {
	scripts     *ScriptWriter
	optimizer   *Optimizer
	renderer    *Renderer
	concurrency int
}

func NewGenerator(text inference.Inferencer, images inference.ImageGenerator, cfg Config) *Generator {
	var limiter *rate.Limiter
	if cfg.ImageRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ImageRate), 1)
	}
	return &Generator{
		scripts:     NewScriptWriter(text),
		optimizer:   NewOptimizer(text, cfg.MaxPromptTokens),
		renderer:    NewRenderer(images, cfg.Policy, limiter),
		concurrency: cfg.Concurrency,
	}
}

// Generate returns all panels or an error; a single failed panel fails the comic.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	logger := log.FromContext(ctx)
	logger.Info("generating comic", "panels", req.PanelCount, "style", req.Style)

	scripts, fallback := g.scripts.Write(ctx, req.Prompt, req.PanelCount, req.Style)

	res := &Result{
		Scripts:         scripts,
		Prompts:         make([]string, len(scripts)),
		Images:          make([]*inference.Image, len(scripts)),
		FallbackScripts: fallback,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if g.concurrency > 0 {
		eg.SetLimit(g.concurrency)
	}
	for i, script := range scripts {
		eg.Go(func() error {
			prompt := g.optimizer.Optimize(egCtx, script, req.Style)
			rendered, err := g.renderer.Render(egCtx, script.PanelNumber, prompt)
			if err != nil {
				return err
			}
			res.Prompts[i] = rendered.Prompt
			res.Images[i] = rendered.Image
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Error("comic generation failed", "err", err)
		return nil, err
	}

	res.Elapsed = time.Since(start)
	logger.Info("comic generated", "panels", len(res.Images), "elapsed", res.Elapsed)
	return res, nil
}
