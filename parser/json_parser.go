package parser

import (
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/reglet-capmark/manifest"
)

// JSONDocumentParser implements DocumentParser for JSON.
type JSONDocumentParser struct{}

// NewJSONDocumentParser creates a new JSONDocumentParser.
func NewJSONDocumentParser() DocumentParser {
	return &JSONDocumentParser{}
}

// Parse unmarshals JSON bytes into a Document struct.
func (p *JSONDocumentParser) Parse(data []byte) (*manifest.Document, error) {
	var doc manifest.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding JSON document: %w", err)
	}
	return &doc, nil
}
