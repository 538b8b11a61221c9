package cargo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// metadataSchema captures the minimal shape this tool relies on. cargo's
// full metadata document carries far more; everything unknown passes through
// unvalidated.
const metadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["packages", "workspace_members"],
  "properties": {
    "packages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "features": {
            "type": "object",
            "additionalProperties": {
              "type": "array",
              "items": {"type": "string"}
            }
          },
          "dependencies": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string"},
                "optional": {"type": "boolean"},
                "kind": {"type": ["string", "null"]},
                "features": {
                  "type": "array",
                  "items": {"type": "string"}
                }
              }
            }
          }
        }
      }
    },
    "workspace_members": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(metadataSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing metadata schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("metadata.schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding metadata schema: %w", err)
	}
	return compiler.Compile("metadata.schema.json")
})

// validateMetadata checks a decoded metadata document against the schema.
func validateMetadata(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}
