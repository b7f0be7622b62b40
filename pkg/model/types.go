package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldKind enumerates the input controls a field can render as.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindPassword FieldKind = "password"
	FieldKindDate     FieldKind = "date"
	FieldKindDropdown FieldKind = "dropdown"
)

// Known reports whether the kind is one of the declared FieldKind values.
func (k FieldKind) Known() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindPassword, FieldKindDate, FieldKindDropdown:
		return true
	default:
		return false
	}
}

// InputType returns the HTML input type used for single-line kinds. Unknown
// kinds and dropdowns fall back to "text".
func (k FieldKind) InputType() string {
	switch k {
	case FieldKindNumber, FieldKindPassword, FieldKindDate:
		return string(k)
	default:
		return string(FieldKindText)
	}
}

// ParseFieldKind normalises a raw kind string. Empty input defaults to text;
// unrecognised values are preserved so renderers can apply the fallback.
func ParseFieldKind(raw string) FieldKind {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return FieldKindText
	case "select", "enum":
		return FieldKindDropdown
	case "string":
		return FieldKindText
	case "integer":
		return FieldKindNumber
	default:
		return FieldKind(value)
	}
}

// Field describes one input inside a form schema. Descriptors are immutable
// once registered.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool      `json:"required" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// DisplayLabel returns the configured label or a label derived from Name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return DefaultLabeler(f.Name)
}

// FormSchema is the ordered field list for one form type.
type FormSchema struct {
	Name        string  `json:"name" yaml:"name"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// DisplayTitle returns Title when set, otherwise Name.
func (s FormSchema) DisplayTitle() string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return s.Name
}

// Field looks up a descriptor by name.
func (s FormSchema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the required descriptors in schema order.
func (s FormSchema) RequiredFields() []Field {
	var out []Field
	for _, field := range s.Fields {
		if field.Required {
			out = append(out, field)
		}
	}
	return out
}

// FieldNames returns the field names in schema order.
func (s FormSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Validate checks the structural invariants of a schema: a non-empty name,
// at least one field, unique non-empty field names, and options on every
// dropdown.
func (s FormSchema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("model: form schema name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("model: form %q has no fields", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("model: form %q field %d has an empty name", s.Name, idx)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("model: form %q defines duplicate field %q", s.Name, name)
		}
		seen[name] = struct{}{}
		if field.Kind == FieldKindDropdown && len(field.Options) == 0 {
			return fmt.Errorf("model: form %q dropdown %q has no options", s.Name, name)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (s FormSchema) Clone() FormSchema {
	out := s
	if len(s.Fields) > 0 {
		out.Fields = make([]Field, len(s.Fields))
		for i, field := range s.Fields {
			cloned := field
			if len(field.Options) > 0 {
				cloned.Options = append([]string(nil), field.Options...)
			}
			out.Fields[i] = cloned
		}
	}
	return out
}

// Values maps field names to the current string value of each input.
type Values map[string]string

// Clone returns a shallow copy of the map. A nil receiver yields an empty,
// non-nil map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Filled reports whether name holds a non-empty value.
func (v Values) Filled(name string) bool {
	return v[name] != ""
}

// Record is one submitted form instance. The key set of Values is fixed at
// creation time and is not reconciled against later schema changes.
type Record struct {
	ID        string    `json:"id"`
	FormType  string    `json:"formType,omitempty"`
	Values    Values    `json:"values"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone copies the record including its value map.
func (r Record) Clone() Record {
	out := r
	out.Values = r.Values.Clone()
	return out
}
