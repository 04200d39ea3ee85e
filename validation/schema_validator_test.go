package validation_test

import (
	"testing"

	"github.com/reglet-dev/reglet-capmark/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_Validate(t *testing.T) {
	v, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		data   string
		format validation.Format
		valid  bool
	}{
		{
			name:   "valid JSON",
			data:   `{"version":"1.0.0","bindings":[{"name":"a","variant":"foo"},{"name":"b","variant":"bar"}]}`,
			format: validation.FormatJSON,
			valid:  true,
		},
		{
			name:   "valid YAML",
			data:   "version: \"1.0.0\"\nbindings:\n  - name: a\n    variant: bar\n    description: ok\n",
			format: validation.FormatYAML,
			valid:  true,
		},
		{
			name:   "unknown variant",
			data:   `{"version":"1.0.0","bindings":[{"name":"a","variant":"baz"}]}`,
			format: validation.FormatJSON,
		},
		{
			name:   "missing name",
			data:   `{"version":"1.0.0","bindings":[{"variant":"foo"}]}`,
			format: validation.FormatJSON,
		},
		{
			name:   "empty name",
			data:   "version: \"1.0.0\"\nbindings:\n  - name: \"\"\n    variant: foo\n",
			format: validation.FormatYAML,
		},
		{
			name:   "extra field",
			data:   `{"version":"1.0.0","bindings":[],"owner":"me"}`,
			format: validation.FormatJSON,
		},
		{
			name:   "missing version",
			data:   `{"bindings":[]}`,
			format: validation.FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
			if tt.valid {
				assert.Empty(t, res.Errors)
			} else {
				assert.NotEmpty(t, res.Errors)
			}
		})
	}
}

func TestSchemaValidator_DecodeErrors(t *testing.T) {
	v, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	_, err = v.Validate([]byte(`{"version":`), validation.FormatJSON)
	assert.Error(t, err)

	_, err = v.Validate([]byte("version: [x"), validation.FormatYAML)
	assert.Error(t, err)

	_, err = v.Validate([]byte(`{}`), validation.Format("toml"))
	assert.Error(t, err)
}

func TestDocumentSchema(t *testing.T) {
	s, err := validation.DocumentSchema()
	require.NoError(t, err)
	assert.Contains(t, s, `"bindings"`)
	assert.Contains(t, s, `"foo"`)
	assert.Contains(t, s, `"bar"`)
}
