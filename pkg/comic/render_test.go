package comic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comicgen/pkg/inference"
	"comicgen/pkg/safety"
)

type recordingPolicy struct {
	attempts []int
}

func (p *recordingPolicy) Rewrite(prompt string, attempt int) safety.Rewrite {
	p.attempts = append(p.attempts, attempt)
	return safety.Rewrite{Prompt: prompt + " (safe)"}
}

func newTestRenderer(images inference.ImageGenerator, policy safety.Policy) *Renderer {
	r := NewRenderer(images, policy, nil)
	r.retryDelay = time.Millisecond
	return r
}

func TestRenderer_Render(t *testing.T) {
	ctx := context.Background()
	blocked := &inference.BlockedError{Reason: "finish reason SAFETY"}

	t.Run("first attempt succeeds", func(t *testing.T) {
		images := &fakeImages{steps: []imageStep{{img: pngImage("ok")}}}
		got, err := newTestRenderer(images, nil).Render(ctx, 1, "a cat")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Attempts)
		assert.Equal(t, "a cat", got.Prompt)
		assert.Equal(t, []byte("ok"), got.Image.Data)
	})

	t.Run("blocked twice then succeeds on third", func(t *testing.T) {
		images := &fakeImages{steps: []imageStep{{err: blocked}, {err: blocked}, {img: pngImage("third")}}}
		policy := &recordingPolicy{}

		got, err := newTestRenderer(images, policy).Render(ctx, 2, "a duel")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Attempts)
		assert.Equal(t, []byte("third"), got.Image.Data)
		assert.Equal(t, "a duel (safe) (safe)", got.Prompt)
		assert.Equal(t, []int{2, 3}, policy.attempts)
		assert.Equal(t, []string{"a duel", "a duel (safe)", "a duel (safe) (safe)"}, images.prompts)
	})

	t.Run("hard errors exhaust attempts", func(t *testing.T) {
		images := &fakeImages{steps: []imageStep{{err: errors.New("429 quota exceeded")}}}
		_, err := newTestRenderer(images, nil).Render(ctx, 3, "a cat")

		var pe *PanelError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 3, pe.Panel)
		assert.Equal(t, KindQuota, pe.Kind)
		assert.Equal(t, DefaultMaxAttempts, pe.Attempts)
		assert.Len(t, images.prompts, DefaultMaxAttempts)
		assert.Contains(t, pe.UserMessage(), "panel 3")
	})

	t.Run("always blocked reports safety", func(t *testing.T) {
		images := &fakeImages{steps: []imageStep{{err: blocked}}}
		_, err := newTestRenderer(images, nil).Render(ctx, 1, "a cat")

		var pe *PanelError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, KindSafety, pe.Kind)
		assert.Len(t, images.prompts, DefaultMaxAttempts)
	})

	t.Run("hard error waits before retry", func(t *testing.T) {
		images := &fakeImages{steps: []imageStep{{err: errors.New("boom")}, {img: pngImage("ok")}}}
		r := newTestRenderer(images, nil)
		r.retryDelay = 20 * time.Millisecond

		start := time.Now()
		got, err := r.Render(ctx, 1, "a cat")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Attempts)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		images := &fakeImages{steps: []imageStep{{err: errors.New("boom")}}}
		r := newTestRenderer(images, nil)
		r.retryDelay = time.Hour

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := r.Render(cctx, 1, "a cat")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, images.prompts, 1)
	})
}
