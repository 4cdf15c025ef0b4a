package schema

import (
	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/ordered"
)

// Locations reported in schema violations.
const (
	InputLocation  = "input_schema"
	OutputLocation = "output_schema"
)

// Validator checks instances against compiled schemas. A disabled validator
// accepts everything, malformed instances included.
type Validator struct {
	Enabled bool
}

// Validate checks instance against s. A nil schema always passes. Failures
// are reported as *diagnostic.SchemaViolation.
func (v Validator) Validate(s *Schema, instance any, location string) error {
	if !v.Enabled || s == nil {
		return nil
	}

	plain := ordered.Plain(instance)

	if err := s.resolved.Validate(plain); err != nil {
		return &diagnostic.SchemaViolation{
			Location: location,
			Schema:   s.raw,
			Instance: plain,
			Err:      err,
		}
	}

	return nil
}
