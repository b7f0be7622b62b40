package components

import (
	"bytes"
	"html"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// NewDefaultRegistry returns a registry with the input and select components.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{Renderer: inputRenderer})
	registry.MustRegister(NameSelect, Descriptor{Renderer: selectRenderer})
	return registry
}

func inputRenderer(buf *bytes.Buffer, field model.Field, value string, data ComponentData) error {
	buf.WriteString(`<input type="`)
	buf.WriteString(field.Kind.InputType())
	buf.WriteString(`"`)
	writeCommonAttributes(buf, field, data)
	buf.WriteString(` value="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteString(`"`)
	if placeholder := field.Placeholder; placeholder != "" {
		buf.WriteString(` placeholder="`)
		buf.WriteString(html.EscapeString(placeholder))
		buf.WriteString(`"`)
	}
	if field.Kind == model.FieldKindPassword {
		buf.WriteString(` autocomplete="off"`)
	}
	buf.WriteString(`>`)
	return nil
}

func selectRenderer(buf *bytes.Buffer, field model.Field, value string, data ComponentData) error {
	empty := data.EmptyOption
	if empty == "" {
		empty = "Select..."
	}

	buf.WriteString(`<select`)
	writeCommonAttributes(buf, field, data)
	buf.WriteString(">\n")
	buf.WriteString(`  <option value="">`)
	buf.WriteString(html.EscapeString(empty))
	buf.WriteString("</option>\n")
	for _, option := range field.Options {
		buf.WriteString(`  <option value="`)
		buf.WriteString(html.EscapeString(option))
		buf.WriteString(`"`)
		if option == value {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>`)
		buf.WriteString(html.EscapeString(option))
		buf.WriteString("</option>\n")
	}
	buf.WriteString(`</select>`)
	return nil
}

func writeCommonAttributes(buf *bytes.Buffer, field model.Field, data ComponentData) {
	if data.ControlID != "" {
		buf.WriteString(` id="`)
		buf.WriteString(html.EscapeString(data.ControlID))
		buf.WriteString(`"`)
	}
	name := html.EscapeString(field.Name)
	buf.WriteString(` name="`)
	buf.WriteString(name)
	buf.WriteString(`" data-fd-field="`)
	buf.WriteString(name)
	buf.WriteString(`"`)
	if field.Required {
		buf.WriteString(` required aria-required="true"`)
	}
	if data.Invalid {
		buf.WriteString(` aria-invalid="true"`)
	}
}
