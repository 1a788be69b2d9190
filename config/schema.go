package config

//go:generate go run ../tools/schema-generator -o ../schema/definitions/surround.schema.json

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema for the typed settings. Extension
// sections such as logging are not part of it.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Settings{})
	schema.Title = "surround settings"
	schema.Description = "Client settings for surroundctl (surround.toml / surround.yml)."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
