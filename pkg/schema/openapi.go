package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// OrderExtension lets OpenAPI documents pin property order, since schema
// property maps carry no ordering of their own.
const OrderExtension = "x-formdesk-order"

var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// FromOpenAPIFile reads an OpenAPI document from disk and converts it with
// FromOpenAPI.
func FromOpenAPIFile(ctx context.Context, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read openapi document: %w", err)
	}
	return FromOpenAPI(ctx, data)
}

// FromOpenAPI derives one form type per operation whose request body is an
// object schema. The form type is named after the operation summary, falling
// back to the operation id and finally "<method> <path>". Properties become
// fields: enums render as dropdowns, password/date formats keep their input
// type, integer/number map to number, everything else is text.
func FromOpenAPI(ctx context.Context, data []byte) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("schema: validate openapi document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("schema: openapi document does not contain any paths")
	}

	paths := make([]string, 0, doc.Paths.Len())
	items := doc.Paths.Map()
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	registry := NewRegistry()
	for _, path := range paths {
		item := items[path]
		if item == nil {
			continue
		}
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
		} {
			if entry.op == nil {
				continue
			}
			form, ok := formFromOperation(entry.method, path, entry.op)
			if !ok {
				continue
			}
			if registry.Has(form.Name) {
				return nil, fmt.Errorf("schema: openapi operations produce duplicate form type %q", form.Name)
			}
			if err := registry.Register(form); err != nil {
				return nil, err
			}
		}
	}

	if registry.Len() == 0 {
		return nil, errors.New("schema: openapi document has no operations with object request bodies")
	}
	return registry, nil
}

func formFromOperation(method, path string, op *openapi3.Operation) (model.FormSchema, bool) {
	body := requestSchema(op.RequestBody)
	if body == nil || !isObject(body) || len(body.Properties) == 0 {
		return model.FormSchema{}, false
	}

	name := sanitizeText(op.Summary)
	if name == "" {
		name = strings.TrimSpace(op.OperationID)
	}
	if name == "" {
		name = method + " " + path
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, key := range body.Required {
		required[key] = struct{}{}
	}

	type orderedField struct {
		order float64
		field model.Field
	}
	ordered := make([]orderedField, 0, len(body.Properties))
	for propName, ref := range body.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[propName]
		ordered = append(ordered, orderedField{
			order: orderOf(ref.Value.Extensions),
			field: fieldFromProperty(propName, ref.Value, isRequired),
		})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].order != ordered[j].order {
			return ordered[i].order < ordered[j].order
		}
		return ordered[i].field.Name < ordered[j].field.Name
	})

	form := model.FormSchema{
		Name:        name,
		Description: sanitizeText(op.Description),
		Fields:      make([]model.Field, 0, len(ordered)),
	}
	for _, entry := range ordered {
		form.Fields = append(form.Fields, entry.field)
	}
	return form, true
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func isObject(schema *openapi3.Schema) bool {
	if schema.Type == nil {
		return len(schema.Properties) > 0
	}
	return schema.Type.Is(openapi3.TypeObject)
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		Name:        name,
		Kind:        model.FieldKindText,
		Label:       sanitizeText(prop.Title),
		Required:    required,
		Description: sanitizeText(prop.Description),
	}

	switch {
	case len(prop.Enum) > 0:
		field.Kind = model.FieldKindDropdown
		for _, value := range prop.Enum {
			if option := strings.TrimSpace(fmt.Sprint(value)); option != "" {
				field.Options = append(field.Options, option)
			}
		}
	case prop.Format == "password":
		field.Kind = model.FieldKindPassword
	case prop.Format == "date":
		field.Kind = model.FieldKindDate
	case prop.Type != nil && (prop.Type.Is(openapi3.TypeInteger) || prop.Type.Is(openapi3.TypeNumber)):
		field.Kind = model.FieldKindNumber
	}
	return field
}

func orderOf(extensions map[string]any) float64 {
	raw, ok := extensions[OrderExtension]
	if !ok {
		return math.MaxFloat64
	}
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case json.RawMessage:
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return f
		}
	}
	return math.MaxFloat64
}
