package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFormSelected is returned when an operation needs a selected form
	// type and none is active.
	ErrNoFormSelected = errors.New("form: no form type selected")
	// ErrUnknownField is returned when a value targets a field the selected
	// schema does not declare.
	ErrUnknownField = errors.New("form: unknown field")
)

// ValidationError lists required fields left empty at submit time. It is only
// produced when required enforcement is enabled.
type ValidationError struct {
	FormType string
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form: %q is missing required fields: %s", e.FormType, strings.Join(e.Missing, ", "))
}

// FieldErrors maps every missing field to a human-readable message.
func (e *ValidationError) FieldErrors(message string) map[string][]string {
	if e == nil || len(e.Missing) == 0 {
		return nil
	}
	if message == "" {
		message = "This field is required."
	}
	out := make(map[string][]string, len(e.Missing))
	for _, name := range e.Missing {
		out[name] = []string{message}
	}
	return out
}
