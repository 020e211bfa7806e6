// Package validator checks JSON documents against JSON Schemas.
package validator

// A JSONDocument is a parsed JSON document, as produced by UnmarshalJSON.
type JSONDocument any

// A JSONSchema is a parsed JSON document representing a JSON Schema.
type JSONSchema JSONDocument

// Validator validates JSON documents against one compiled schema.
type Validator interface {
	Validate(v JSONDocument) error
}

// Compiler compiles registered schemas into Validators.
type Compiler interface {
	// AddSchema registers a JSONSchema under id, which must be an absolute URL.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	Compile(id string) (Validator, error)
}
