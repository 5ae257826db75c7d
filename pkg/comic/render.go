package comic

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"comicgen/pkg/inference"
	"comicgen/pkg/safety"
	"comicgen/pkg/utils"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Renderer draws one panel, rewriting the prompt when the model refuses it
// and retrying hard errors after a fixed delay.
type Renderer struct {
	images      inference.ImageGenerator
	policy      safety.Policy
	limiter     *rate.Limiter
	maxAttempts int
	retryDelay  time.Duration
}

type Rendered struct {
	Image    *inference.Image
	Prompt   string
	Attempts int
}

// NewRenderer paces calls through limiter; a nil limiter means unlimited.
func NewRenderer(images inference.ImageGenerator, policy safety.Policy, limiter *rate.Limiter) *Renderer {
	if policy == nil {
		policy = safety.NewRegexPolicy()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Renderer{
		images:      images,
		policy:      policy,
		limiter:     limiter,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
}

func (r *Renderer) Render(ctx context.Context, panel int, prompt string) (*Rendered, error) {
	logger := log.FromContext(ctx).With("panel", panel)

	current := prompt
	var lastErr error
	attempt := 1
	for ; attempt <= r.maxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, &PanelError{Panel: panel, Kind: Classify(err), Attempts: attempt, Err: err}
		}

		img, err := r.images.GenerateImage(ctx, current)
		if err == nil {
			logger.Info("panel rendered", "attempt", attempt, "bytes", len(img.Data))
			return &Rendered{Image: img, Prompt: current, Attempts: attempt}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, &PanelError{Panel: panel, Kind: Classify(ctx.Err()), Attempts: attempt, Err: ctx.Err()}
		}
		if attempt == r.maxAttempts {
			break
		}

		if inference.IsBlocked(err) {
			rw := r.policy.Rewrite(current, attempt+1)
			logger.Warn("panel blocked, retrying with sanitized prompt",
				"attempt", attempt, "reason", err, "replaced", rw.Replaced)
			logger.Debug("sanitized prompt", "prompt", utils.LimitStr(rw.Prompt, 200))
			current = rw.Prompt
			continue
		}

		logger.Warn("panel generation failed, retrying", "attempt", attempt, "kind", Classify(err), "err", err)
		select {
		case <-ctx.Done():
			return nil, &PanelError{Panel: panel, Kind: Classify(ctx.Err()), Attempts: attempt, Err: ctx.Err()}
		case <-time.After(r.retryDelay):
		}
	}

	return nil, &PanelError{Panel: panel, Kind: Classify(lastErr), Attempts: r.maxAttempts, Err: lastErr}
}
