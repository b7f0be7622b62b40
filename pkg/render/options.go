package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching controller state.
type RenderOptions struct {
	// BasePath prefixes every route the page links or posts to.
	BasePath string
	// HiddenFields are emitted into every form on the page, e.g. the session
	// CSRF token.
	HiddenFields map[string]string
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// Theme carries resolved go-theme tokens and asset lookups.
	Theme *theme.RendererConfig
	// Locale and Translator localise renderer chrome ("Submit", "Edit", ...).
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
