package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultImageModel = "gemini-2.0-flash-preview-image-generation"

type Image struct {
	Data     []byte
	MIMEType string
}

// ImageGenerator renders one image per prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// BlockedError reports that the model answered but declined to produce an image.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "image generation blocked: " + e.Reason
}

// IsBlocked reports whether err is a content-safety refusal.
func IsBlocked(err error) bool {
	var b *BlockedError
	return errors.As(err, &b)
}

// finish reasons that mean the content was withheld rather than failed
var blockingFinishReasons = map[string]struct{}{
	"SAFETY":                   {},
	"PROHIBITED_CONTENT":       {},
	"BLOCKLIST":                {},
	"SPII":                     {},
	"RECITATION":               {},
	"IMAGE_SAFETY":             {},
	"IMAGE_PROHIBITED_CONTENT": {},
	"IMAGE_RECITATION":         {},
	"NO_IMAGE":                 {},
}

type GeminiImageGenerator struct {
	models ContentGenerator
	model  string
}

func NewGeminiImageGenerator(models ContentGenerator, model string) *GeminiImageGenerator {
	return &GeminiImageGenerator{
		models: models,
		model:  cmp.Or(model, DefaultImageModel),
	}
}

// GenerateImage asks the image model for one picture. Transport and API
// failures are returned as is; refusals come back as *BlockedError.
func (g *GeminiImageGenerator) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image API error: %w", err)
	}
	return ExtractImage(resp)
}

// ExtractImage pulls the first inline image from the first candidate.
func ExtractImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil {
		return nil, &BlockedError{Reason: "empty response"}
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, &BlockedError{Reason: "prompt blocked (" + string(fb.BlockReason) + ")"}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, &BlockedError{Reason: "no candidates"}
	}

	candidate := resp.Candidates[0]
	if _, ok := blockingFinishReasons[string(candidate.FinishReason)]; ok {
		return nil, &BlockedError{Reason: "finish reason " + string(candidate.FinishReason)}
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &BlockedError{Reason: "no content parts"}
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{
				Data:     part.InlineData.Data,
				MIMEType: cmp.Or(part.InlineData.MIMEType, "image/png"),
			}, nil
		}
	}
	return nil, &BlockedError{Reason: "no image data in response"}
}
