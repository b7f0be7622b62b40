package components

import "github.com/goliatone/go-formdesk/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput  = "input"
	NameSelect = "select"
)

// NameFor picks the component that renders kind. Dropdowns render as a
// select; every other kind, known or not, renders as a single-line input.
func NameFor(kind model.FieldKind) string {
	if kind == model.FieldKindDropdown {
		return NameSelect
	}
	return NameInput
}
