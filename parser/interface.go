package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-capmark/manifest"
)

// DocumentParser parses raw document bytes into a Document.
type DocumentParser interface {
	// Parse unmarshals document bytes into a Document struct.
	Parse(data []byte) (*manifest.Document, error)
}

// ForPath selects a parser from the file extension.
func ForPath(path string) (DocumentParser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLDocumentParser(), nil
	case ".json":
		return NewJSONDocumentParser(), nil
	default:
		return nil, fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}
}
