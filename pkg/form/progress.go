package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// ProgressMode selects which value snapshot the progress computation reads
// after a field change.
type ProgressMode string

const (
	// ProgressAfterWrite counts the value that was just entered.
	ProgressAfterWrite ProgressMode = "after"
	// ProgressBeforeWrite counts the values as they were before the change,
	// so the bar lags one keystroke behind.
	ProgressBeforeWrite ProgressMode = "before"
)

// ParseProgressMode accepts "after" or "before" (case-insensitive). Empty
// input selects ProgressAfterWrite.
func ParseProgressMode(raw string) (ProgressMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ProgressAfterWrite):
		return ProgressAfterWrite, nil
	case string(ProgressBeforeWrite):
		return ProgressBeforeWrite, nil
	default:
		return "", fmt.Errorf("form: unknown progress mode %q", raw)
	}
}

// Progress returns the percentage of required fields holding a non-empty
// value. A schema without required fields is complete by definition and
// reports 100.
func Progress(form model.FormSchema, values model.Values) float64 {
	required := form.RequiredFields()
	if len(required) == 0 {
		return 100
	}
	filled := 0
	for _, field := range required {
		if values.Filled(field.Name) {
			filled++
		}
	}
	return float64(filled) / float64(len(required)) * 100
}
