package capmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-capmark/config"
	"github.com/reglet-dev/reglet-capmark/decisionstore"
	"github.com/reglet-dev/reglet-capmark/manifest"
	"github.com/reglet-dev/reglet-capmark/parser"
	"github.com/reglet-dev/reglet-capmark/registry"
	"github.com/reglet-dev/reglet-capmark/validation"
)

// ErrSchemaViolation is returned when a document does not match the binding schema.
var ErrSchemaViolation = errors.New("document violates binding schema")

// LoadDocumentFile reads and parses a binding document. With strict set the
// raw bytes are checked against the JSON Schema before decoding.
func LoadDocumentFile(path string, strict bool) (*manifest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	p, err := parser.ForPath(path)
	if err != nil {
		return nil, err
	}

	if strict {
		v, err := validation.NewSchemaValidator()
		if err != nil {
			return nil, err
		}
		res, err := v.Validate(data, formatForPath(path))
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, fmt.Errorf("%w: %s: %s", ErrSchemaViolation, path, strings.Join(res.Errors, "; "))
		}
	}

	doc, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document %q: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func formatForPath(path string) validation.Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return validation.FormatJSON
	}
	return validation.FormatYAML
}

// NewFromConfig assembles a Checker from cfg. A configured document replaces
// the default bindings. Options passed in override the assembled ones.
func NewFromConfig(ctx context.Context, cfg config.Config, opts ...CheckerOption) (*Checker, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	base := []CheckerOption{WithLogger(logger)}

	if cfg.DocumentPath != "" {
		doc, err := LoadDocumentFile(cfg.DocumentPath, cfg.StrictSchema)
		if err != nil {
			return nil, err
		}
		reg := registry.NewRegistry()
		if err := registry.LoadDocument(reg, doc); err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "loaded binding document", "path", cfg.DocumentPath, "bindings", len(doc.Bindings))
		base = append(base, WithRegistry(reg))
	}

	if cfg.StorePath != "" {
		base = append(base, WithDecisionStore(decisionstore.NewFileStore(decisionstore.WithPath(cfg.StorePath))))
	}

	return NewChecker(append(base, opts...)...), nil
}
