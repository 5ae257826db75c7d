package comic

import (
	"context"
	"strings"
	"sync"

	"comicgen/pkg/inference"
)

// --- Mocks ---

// fakeInferencer answers script requests with script and everything else with optimized.
type fakeInferencer struct {
	script    string
	scriptErr error
	optimized string
	optErr    error

	mu    sync.Mutex
	calls int
}

func (f *fakeInferencer) Infer(_ context.Context, opts *inference.Options, _, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if opts != nil && opts.Schema != nil {
		return f.script, f.scriptErr
	}
	if f.optimized == "" && f.optErr == nil {
		return "optimized: " + strings.SplitN(user, "\n", 2)[0], nil
	}
	return f.optimized, f.optErr
}

type imageStep struct {
	img *inference.Image
	err error
}

// fakeImages replays steps per prompt call; the last step repeats.
type fakeImages struct {
	mu      sync.Mutex
	steps   []imageStep
	prompts []string
	// failFor forces an error whenever the prompt contains the key.
	failFor map[string]error
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) (*inference.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	for key, err := range f.failFor {
		if strings.Contains(prompt, key) {
			return nil, err
		}
	}
	if len(f.steps) == 0 {
		return &inference.Image{Data: []byte(prompt), MIMEType: "image/png"}, nil
	}
	step := f.steps[0]
	if len(f.steps) > 1 {
		f.steps = f.steps[1:]
	}
	return step.img, step.err
}

func pngImage(s string) *inference.Image {
	return &inference.Image{Data: []byte(s), MIMEType: "image/png"}
}
