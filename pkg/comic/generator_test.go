package comic

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"comicgen/pkg/inference"
	"comicgen/pkg/schema"
)

func oneToken(string) int { return 1 }

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	for n := schema.MinPanels; n <= schema.MaxPanels; n++ {
		t.Run(fmt.Sprintf("%d panels", n), func(t *testing.T) {
			g := NewGenerator(&fakeInferencer{scriptErr: errors.New("down")}, &fakeImages{}, Config{Concurrency: 2})
			g.optimizer.countTokens = oneToken

			res, err := g.Generate(ctx, Request{Prompt: "a heist", Style: schema.StyleManga, PanelCount: n})
			require.NoError(t, err)
			assert.True(t, res.FallbackScripts)
			require.Len(t, res.Images, n)
			require.Len(t, res.Scripts, n)
			require.Len(t, res.Prompts, n)
			for i := range n {
				assert.Equal(t, i+1, res.Scripts[i].PanelNumber)
				// fake images echo the prompt, so order is checkable
				assert.Equal(t, res.Prompts[i], string(res.Images[i].Data))
				assert.Contains(t, res.Prompts[i], fmt.Sprintf("Panel %d", i+1))
			}
		})
	}

	t.Run("one failing panel fails the comic", func(t *testing.T) {
		images := &fakeImages{failFor: map[string]error{"Panel 2": errors.New("API key not valid")}}
		g := NewGenerator(&fakeInferencer{scriptErr: errors.New("down")}, images, Config{})
		g.optimizer.countTokens = oneToken
		g.renderer.retryDelay = 0

		res, err := g.Generate(ctx, Request{Prompt: "a heist", Style: schema.StyleManga, PanelCount: 3})
		assert.Nil(t, res)
		var pe *PanelError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Panel)
		assert.Equal(t, KindKey, pe.Kind)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{&inference.BlockedError{Reason: "x"}, KindSafety},
		{fmt.Errorf("wrapped: %w", &inference.BlockedError{Reason: "x"}), KindSafety},
		{errors.New("Resource has been exhausted (e.g. check quota)."), KindQuota},
		{errors.New("rate limit reached"), KindQuota},
		{errors.New("Image generation is not available in your country"), KindRegion},
		{errors.New("User location is not supported for the API use."), KindRegion},
		{errors.New("API key not valid. Please pass a valid API key."), KindKey},
		{genai.APIError{Code: 429, Message: "slow down"}, KindQuota},
		{genai.APIError{Code: 403, Message: "forbidden"}, KindKey},
		{genai.APIError{Code: 500, Message: "internal"}, KindOther},
		{context.DeadlineExceeded, KindNetwork},
		{errors.New("dial tcp: connection refused"), KindNetwork},
		{errors.New("something odd"), KindOther},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "image API quota exhausted or rate limited (panel 2)",
		UserMessage(fmt.Errorf("x: %w", &PanelError{Panel: 2, Kind: KindQuota})))
	assert.Equal(t, "prompt: required", UserMessage(&ValidationError{Field: "prompt", Message: "required"}))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
