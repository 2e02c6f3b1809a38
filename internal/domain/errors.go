package domain

import "fmt"

// ValidationError reports malformed or out-of-range request input.
// The request is rejected before any computation; there is never a
// partial result
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports mismatched or missing configuration, e.g. a
// category present in the snapshot but absent from the tax rate table
type ConfigurationError struct {
	Subject string
	Msg     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Subject, e.Msg)
}

// NewConfigurationError creates a ConfigurationError for the given subject
func NewConfigurationError(subject, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Msg: fmt.Sprintf(format, args...)}
}
