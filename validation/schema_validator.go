// Package validation checks binding documents against their JSON Schema.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/reglet-dev/reglet-capmark/manifest"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://capmark.reglet.dev/document.schema.json"

// Format is the encoding of a raw document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Errors []string
	Valid  bool
}

// SchemaValidator validates documents against a schema reflected from manifest.Document.
type SchemaValidator struct {
	schema *jsonschema.Schema
	raw    string
}

// Ensure SchemaValidator satisfies the interface.
var _ DocumentValidator = (*SchemaValidator)(nil)

// DocumentSchema returns the JSON Schema for manifest.Document.
func DocumentSchema() (string, error) {
	r := new(invopop.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.Anonymous = true

	s := r.Reflect(&manifest.Document{})
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return string(b), nil
}

// NewSchemaValidator builds and compiles the document schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	raw, err := DocumentSchema()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add document schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}

	return &SchemaValidator{schema: schema, raw: raw}, nil
}

// Schema returns the JSON text of the compiled schema.
func (v *SchemaValidator) Schema() string {
	return v.raw
}

// Validate decodes data and checks it against the schema. Decoding failures
// are returned as errors; schema violations are reported in the result.
func (v *SchemaValidator) Validate(data []byte, format Format) (*ValidationResult, error) {
	instance, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	return &ValidationResult{Valid: false, Errors: flatten(ve)}, nil
}

func decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var instance any
		if err := dec.Decode(&instance); err != nil {
			return nil, fmt.Errorf("decoding JSON document: %w", err)
		}
		return instance, nil
	case FormatYAML:
		var instance any
		if err := yaml.Unmarshal(data, &instance); err != nil {
			return nil, fmt.Errorf("decoding YAML document: %w", err)
		}
		return instance, nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// flatten collects leaf causes as "location: message" lines.
func flatten(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}
