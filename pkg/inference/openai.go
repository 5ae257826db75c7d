package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"comicgen/pkg/schema"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK. Any
// OpenAI-compatible endpoint works through baseURL.
type OpenAIInferencer struct {
	client *openai.Client
	model  string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey, baseURL, model string) *OpenAIInferencer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIInferencer{
		client: &client,
		model:  cmp.Or(model, DefaultOpenAIModel),
	}
}

// Infer sends text to the OpenAI chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, opts *Options, system, user string) (string, error) {
	if opts == nil {
		opts = new(Options)
	}
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: system},
					},
				}},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: user},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(int64(cmp.Or(opts.MaxTokens, 4096))),
		Temperature:         openai.Float(cmp.Or(opts.Temperature, 0.7)),
	}
	if opts.Schema != nil {
		params.ResponseFormat = schema.StructuredOutputsResponseFormat(
			cmp.Or(opts.SchemaName, "response"), "Structured response", opts.Schema)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}
