// Package parser provides functionality for parsing binding documents.
package parser

import (
	"fmt"

	"github.com/reglet-dev/reglet-capmark/manifest"
	"gopkg.in/yaml.v3"
)

// YAMLDocumentParser implements DocumentParser for YAML.
type YAMLDocumentParser struct{}

// NewYAMLDocumentParser creates a new YAMLDocumentParser.
func NewYAMLDocumentParser() DocumentParser {
	return &YAMLDocumentParser{}
}

// Parse unmarshals YAML bytes into a Document struct.
func (p *YAMLDocumentParser) Parse(data []byte) (*manifest.Document, error) {
	var doc manifest.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding YAML document: %w", err)
	}
	return &doc, nil
}
