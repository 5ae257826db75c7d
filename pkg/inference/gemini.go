package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"comicgen/pkg/schema"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// ContentGenerator is the part of the genai client the inferencers call.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates the process-wide genai client for the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

type GeminiInferencer struct {
	models ContentGenerator
	model  string
}

// NewGeminiInferencer creates a text inferencer on top of a shared genai client.
func NewGeminiInferencer(models ContentGenerator, model string) *GeminiInferencer {
	return &GeminiInferencer{
		models: models,
		model:  cmp.Or(model, DefaultGeminiModel),
	}
}

// Infer sends the system and user turns to Gemini and returns the text answer.
func (o *GeminiInferencer) Infer(ctx context.Context, opts *Options, system, user string) (string, error) {
	if opts == nil {
		opts = new(Options)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(cmp.Or(opts.MaxTokens, 4096)),
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = schema.SchemaMap(opts.Schema)
	}

	result, err := o.models.GenerateContent(ctx, o.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("empty result")
	}
	return text, nil
}
