package inference

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Options tunes a single inference call. A nil *Options means plain text with
// provider defaults.
type Options struct {
	// Schema constrains the answer to JSON matching it.
	Schema      *jsonschema.Schema
	SchemaName  string
	MaxTokens   int
	Temperature float64
}

// Inferencer defines an interface for running text model inference.
type Inferencer interface {
	Infer(ctx context.Context, opts *Options, system, user string) (string, error)
}
