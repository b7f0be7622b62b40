package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla/components"
)

var defaultComponents = components.NewDefaultRegistry()

// RenderField renders one field descriptor holding value: a label with a
// required marker, the control chosen by kind, and the description.
// Unknown kinds render as text inputs.
func RenderField(field model.Field, value string) string {
	out, err := newFieldRenderer(defaultComponents, "").render(field, value, nil)
	if err != nil {
		return ""
	}
	return out
}

type fieldRenderer struct {
	registry    *components.Registry
	emptyOption string
	used        map[string]struct{}
}

func newFieldRenderer(registry *components.Registry, emptyOption string) *fieldRenderer {
	if registry == nil {
		registry = defaultComponents
	}
	return &fieldRenderer{
		registry:    registry,
		emptyOption: emptyOption,
		used:        make(map[string]struct{}),
	}
}

func (r *fieldRenderer) render(field model.Field, value string, errs []string) (string, error) {
	name := components.NameFor(field.Kind)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, field.Name)
	}

	var control bytes.Buffer
	data := components.ComponentData{
		ControlID:   controlID(field.Name),
		EmptyOption: r.emptyOption,
		Invalid:     len(errs) > 0,
	}
	if err := descriptor.Renderer(&control, field, value, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, field.Name, err)
	}
	r.used[name] = struct{}{}
	return buildFieldMarkup(field, name, control.String(), errs), nil
}

func (r *fieldRenderer) stylesheets() []string {
	names := make([]string, 0, len(r.used))
	for _, name := range r.registry.Names() {
		if _, ok := r.used[name]; ok {
			names = append(names, name)
		}
	}
	return r.registry.Stylesheets(names)
}

func buildFieldMarkup(field model.Field, componentName, control string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-fd-kind="`)
	builder.WriteString(html.EscapeString(string(field.Kind)))
	builder.WriteString("\">\n")

	builder.WriteString(`    <label for="`)
	builder.WriteString(html.EscapeString(controlID(field.Name)))
	builder.WriteString(`" class="`)
	builder.WriteString(string(ClassLabel))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(field.DisplayLabel()))
	if field.Required {
		builder.WriteString(` <span class="`)
		builder.WriteString(string(ClassRequired))
		builder.WriteString(`" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</label>\n")

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString(`    <small class="`)
		builder.WriteString(string(ClassDescription))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</small>\n")
	}

	for idx, msg := range errs {
		builder.WriteString(`    <p class="`)
		builder.WriteString(string(ClassError))
		builder.WriteString(`"`)
		if idx == 0 {
			builder.WriteString(` id="`)
			builder.WriteString(html.EscapeString(errorID(field.Name)))
			builder.WriteString(`"`)
		}
		builder.WriteString(` role="alert">`)
		builder.WriteString(html.EscapeString(msg))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
