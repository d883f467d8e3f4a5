package memory

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema describes the well-known document fields as JSON Schema. Extra
// keys are permitted.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	s := r.Reflect(&View{})
	s.Title = "memagent memory document"
	return s
}

// SchemaJSON renders Schema with two-space indentation.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
