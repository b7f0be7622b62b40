package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdesk/pkg/desk"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// looked up without a Translator configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. The default returns the fallback, or the key when there is no
// fallback.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

var statusKeys = map[string]string{
	desk.StatusAdded:   "status.added",
	desk.StatusSaved:   "status.saved",
	desk.StatusDeleted: "status.deleted",
}

// Text translates key using the options' translator, falling back to
// fallback.
func Text(opts RenderOptions, key, fallback string) string {
	return translate(opts.Locale, key, fallback, opts.Translator, opts.OnMissing)
}

// LocalizeView translates form titles, field labels, placeholders, column
// headers, and the status banner in place. Keys follow
// "forms.<form>.title" and "forms.<form>.fields.<field>.label". A view is
// left untouched when no translator is configured.
func LocalizeView(view *View, opts RenderOptions) {
	if view == nil || opts.Translator == nil {
		return
	}

	for i := range view.FormTypes {
		option := &view.FormTypes[i]
		option.Title = Text(opts, formKey(option.Name, "title"), option.Title)
	}

	if view.Form != nil {
		name := view.Form.Schema.Name
		view.Form.Schema.Title = Text(opts, formKey(name, "title"), view.Form.Schema.DisplayTitle())
		for i := range view.Form.Schema.Fields {
			field := &view.Form.Schema.Fields[i]
			field.Label = Text(opts, fieldKey(name, field.Name, "label"), field.DisplayLabel())
			if field.Placeholder != "" {
				field.Placeholder = Text(opts, fieldKey(name, field.Name, "placeholder"), field.Placeholder)
			}
		}
	}

	for i := range view.Table.Columns {
		column := &view.Table.Columns[i]
		column.Label = Text(opts, "columns."+column.Key, column.Label)
	}

	if key, ok := statusKeys[view.Status]; ok {
		view.Status = Text(opts, key, view.Status)
	}
}

func formKey(form, suffix string) string {
	return "forms." + slugKey(form) + "." + suffix
}

func fieldKey(form, field, suffix string) string {
	return "forms." + slugKey(form) + ".fields." + field + "." + suffix
}

func slugKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, fallback, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, err)
}

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
