package records

import (
	"sort"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// SchemaLookup resolves form types to schemas. *schema.Registry satisfies
// it; a nil lookup falls back to raw keys.
type SchemaLookup interface {
	Lookup(name string) (model.FormSchema, error)
}

// Column is one table header.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Columns derives the table header from every record. Keys appear in first
// appearance order across records; within a record whose schema is known,
// keys follow the schema's field order, and any extra keys follow sorted.
// Nothing is dropped, so rows missing a key render an empty cell.
func Columns(records []model.Record, lookup SchemaLookup) []Column {
	var columns []Column
	seen := make(map[string]struct{})
	schemas := make(map[string]*model.FormSchema)

	for _, record := range records {
		form := resolveSchema(record.FormType, lookup, schemas)
		for _, key := range orderedKeys(record.Values, form) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, Column{Key: key, Label: columnLabel(key, form)})
		}
	}
	return columns
}

// Cells returns the record's values aligned to columns.
func Cells(record model.Record, columns []Column) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = record.Values[column.Key]
	}
	return out
}

func resolveSchema(formType string, lookup SchemaLookup, cache map[string]*model.FormSchema) *model.FormSchema {
	if lookup == nil || formType == "" {
		return nil
	}
	if form, ok := cache[formType]; ok {
		return form
	}
	form, err := lookup.Lookup(formType)
	if err != nil {
		cache[formType] = nil
		return nil
	}
	cache[formType] = &form
	return &form
}

func orderedKeys(values model.Values, form *model.FormSchema) []string {
	keys := make([]string, 0, len(values))
	used := make(map[string]struct{}, len(values))
	if form != nil {
		for _, field := range form.Fields {
			if _, ok := values[field.Name]; ok {
				keys = append(keys, field.Name)
				used[field.Name] = struct{}{}
			}
		}
	}
	extra := make([]string, 0, len(values)-len(keys))
	for key := range values {
		if _, ok := used[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func columnLabel(key string, form *model.FormSchema) string {
	if form != nil {
		if field, ok := form.Field(key); ok {
			return field.DisplayLabel()
		}
	}
	return model.DefaultLabeler(key)
}
