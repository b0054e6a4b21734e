package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "render.max_width")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateSchema()...)
	errors = append(errors, c.validateRender()...)
	errors = append(errors, c.validateMetrics()...)

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if strings.ContainsRune(c.Logging.File, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.file",
			Value:   c.Logging.File,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func (c *Config) validateSchema() []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool)
	for i, p := range c.Schema.Paths {
		field := fmt.Sprintf("schema.paths[%d]", i)
		switch {
		case strings.TrimSpace(p) == "":
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   p,
				Message: "path cannot be empty",
			})
		case strings.ContainsRune(p, '\x00'):
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   p,
				Message: "path contains invalid null character",
			})
		case seen[p]:
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   p,
				Message: "duplicate path",
			})
		}
		seen[p] = true
	}

	if c.Schema.Watch && len(c.Schema.Paths) == 0 {
		errors = append(errors, ValidationError{
			Field:   "schema.watch",
			Value:   c.Schema.Watch,
			Message: "requires at least one schema path",
		})
	}

	return errors
}

func (c *Config) validateRender() []ValidationError {
	var errors []ValidationError

	const minWidth, maxWidth = 20, 1000
	if c.Render.MaxWidth != 0 && (c.Render.MaxWidth < minWidth || c.Render.MaxWidth > maxWidth) {
		errors = append(errors, ValidationError{
			Field:   "render.max_width",
			Value:   c.Render.MaxWidth,
			Message: fmt.Sprintf("must be 0 (terminal width) or between %d and %d", minWidth, maxWidth),
		})
	}

	return errors
}

func (c *Config) validateMetrics() []ValidationError {
	var errors []ValidationError

	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			errors = append(errors, ValidationError{
				Field:   "metrics.addr",
				Value:   c.Metrics.Addr,
				Message: "must be a host:port listen address",
			})
		}
	}

	return errors
}
