package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"comicgen/pkg/schema"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	model  string
	config *genai.GenerateContentConfig
	text   string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.text = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: s}}},
		}},
	}
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
			}},
		}},
	}
}

func TestGeminiInferencer_Infer(t *testing.T) {
	ctx := context.Background()

	t.Run("schema switches to JSON mode", func(t *testing.T) {
		m := &fakeModels{resp: textResponse(`{"panels":[]}`)}
		inf := NewGeminiInferencer(m, "")

		out, err := inf.Infer(ctx, &Options{Schema: schema.ScriptSchema}, "sys", "user")
		require.NoError(t, err)
		assert.Equal(t, `{"panels":[]}`, out)
		assert.Equal(t, DefaultGeminiModel, m.model)
		assert.Equal(t, "application/json", m.config.ResponseMIMEType)
		assert.NotNil(t, m.config.ResponseJsonSchema)
		assert.Equal(t, "user", m.text)
	})

	t.Run("plain text without options", func(t *testing.T) {
		m := &fakeModels{resp: textResponse("a prompt")}
		out, err := NewGeminiInferencer(m, "custom").Infer(ctx, nil, "sys", "user")
		require.NoError(t, err)
		assert.Equal(t, "a prompt", out)
		assert.Equal(t, "custom", m.model)
		assert.Empty(t, m.config.ResponseMIMEType)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewGeminiInferencer(&fakeModels{err: boom}, "").Infer(ctx, nil, "", "")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty text is an error", func(t *testing.T) {
		_, err := NewGeminiInferencer(&fakeModels{resp: &genai.GenerateContentResponse{}}, "").Infer(ctx, nil, "", "")
		assert.Error(t, err)
	})
}

func TestExtractImage(t *testing.T) {
	t.Run("first inline image wins", func(t *testing.T) {
		img, err := ExtractImage(imageResponse([]byte("png-bytes")))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), img.Data)
		assert.Equal(t, "image/png", img.MIMEType)
	})

	blocked := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"prompt feedback": {
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		},
		"safety finish": {
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		},
		"empty content": {
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		},
		"text only": textResponse("I can't draw that."),
	}
	for name, resp := range blocked {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractImage(resp)
			require.Error(t, err)
			assert.True(t, IsBlocked(err))
		})
	}
}

func TestGeminiImageGenerator(t *testing.T) {
	ctx := context.Background()

	m := &fakeModels{resp: imageResponse([]byte("x"))}
	img, err := NewGeminiImageGenerator(m, "").GenerateImage(ctx, "a cat")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), img.Data)
	assert.Equal(t, DefaultImageModel, m.model)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, m.config.ResponseModalities)
	assert.Equal(t, "a cat", m.text)

	apiErr := errors.New("quota exceeded")
	_, err = NewGeminiImageGenerator(&fakeModels{err: apiErr}, "").GenerateImage(ctx, "a cat")
	assert.ErrorIs(t, err, apiErr)
	assert.False(t, IsBlocked(err))
}
