package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics collects problems found while loading a mapping configuration.
// Loading does not stop at the first problem so that all of them can be
// reported together.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Scope identifies the var/op mapping this relates to (if any), e.g. "x.set".
	Scope string
	// Path identifies the location inside the mapping document (if any).
	Path string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, scope, path string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Scope:    scope,
		Path:     path,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, scope, path string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Scope:    scope,
		Path:     path,
	})
}

// AddErr records err as an error diagnostic. ConfigErrors keep their path
// and suggestions.
func (d *Diagnostics) AddErr(code, scope string, err error) {
	diag := Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  err.Error(),
		Scope:    scope,
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		diag.Message = cfgErr.Reason
		if cfgErr.Err != nil {
			diag.Message += ": " + cfgErr.Err.Error()
		}

		diag.Path = cfgErr.Path
		diag.Suggestions = cfgErr.Suggestions
	}

	d.Errors = append(d.Errors, diag)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Err returns a ConfigError combining all error diagnostics, or nil if
// there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return &ConfigError{Reason: "invalid mapping configuration: " + strings.Join(parts, "; ")}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Scope != "" {
		prefix = append(prefix, "["+d.Scope+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
