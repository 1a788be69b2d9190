package config

import (
	"github.com/grovetools/surround/schema"
)

// SchemaValidator validates settings against the generated JSON Schema.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator compiles the settings schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	validator, err := schema.NewValidator("surround.json", data)
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{validator: validator}, nil
}

// Validate validates settings data against the schema.
func (v *SchemaValidator) Validate(settings interface{}) error {
	return v.validator.Validate(settings)
}
