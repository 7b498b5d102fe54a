package models

import "fmt"

// ValidationError reports an invalid directory entity or definition.
type ValidationError struct {
	// Entity identifies what failed, e.g. `user "alice"`.
	Entity string

	// Reason describes the violated rule.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

// Invalid returns a ValidationError for entity.
func Invalid(entity, format string, args ...any) *ValidationError {
	return &ValidationError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}
