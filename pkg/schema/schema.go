package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var ScriptSchema = generateSchema[Script]()

// SchemaMap returns s as a plain JSON object without the draft and id
// keywords, which Gemini's response schema does not accept.
func SchemaMap(s *jsonschema.Schema) map[string]any {
	if s == nil {
		return nil
	}
	bin, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(bin, &m); err != nil {
		return nil
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

func StructuredOutputsResponseFormat(name, description string, s *jsonschema.Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      s,
		Strict:      openai.Bool(false),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
