package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// ErrUnknownFormType is returned when a lookup names a form type that was
// never registered.
var ErrUnknownFormType = errors.New("schema: unknown form type")

// Registry stores form schemas by name and remembers registration order so
// selection controls list form types deterministically.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]model.FormSchema
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]model.FormSchema),
	}
}

// Register validates and stores a schema. Duplicate names return an error.
func (r *Registry) Register(form model.FormSchema) error {
	form = normaliseSchema(form)
	if err := form.Validate(); err != nil {
		return fmt.Errorf("schema: register: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[form.Name]; exists {
		return fmt.Errorf("schema: form type %q already registered", form.Name)
	}
	r.forms[form.Name] = form.Clone()
	r.order = append(r.order, form.Name)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(form model.FormSchema) {
	if err := r.Register(form); err != nil {
		panic(err)
	}
}

// Lookup returns a copy of the schema registered under name.
func (r *Registry) Lookup(name string) (model.FormSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form, ok := r.forms[strings.TrimSpace(name)]
	if !ok {
		return model.FormSchema{}, fmt.Errorf("%w: %q", ErrUnknownFormType, name)
	}
	return form.Clone(), nil
}

// Has reports whether a form type is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forms[strings.TrimSpace(name)]
	return ok
}

// Names returns the registered form type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Schemas returns every registered schema in registration order.
func (r *Registry) Schemas() []model.FormSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FormSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.forms[name].Clone())
	}
	return out
}

// Len reports the number of registered form types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// normaliseSchema trims names, resolves kinds, and fills missing labels.
func normaliseSchema(form model.FormSchema) model.FormSchema {
	form.Name = strings.TrimSpace(form.Name)
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)

	fields := make([]model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		field.Name = strings.TrimSpace(field.Name)
		field.Kind = model.ParseFieldKind(string(field.Kind))
		field.Label = strings.TrimSpace(field.Label)
		if field.Label == "" {
			field.Label = model.DefaultLabeler(field.Name)
		}
		if len(field.Options) > 0 {
			options := make([]string, 0, len(field.Options))
			for _, option := range field.Options {
				if trimmed := strings.TrimSpace(option); trimmed != "" {
					options = append(options, trimmed)
				}
			}
			field.Options = options
		}
		fields = append(fields, field)
	}
	form.Fields = fields
	return form
}
