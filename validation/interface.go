package validation

// DocumentValidator validates raw binding documents against a schema.
type DocumentValidator interface {
	// Validate checks data, encoded in format, against the document schema.
	Validate(data []byte, format Format) (*ValidationResult, error)
}
