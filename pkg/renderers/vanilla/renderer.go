// Package vanilla renders the desk as server-side HTML with a small runtime
// script that reports field changes and updates the progress bar.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-formdesk/pkg/render"
	rendertemplate "github.com/goliatone/go-formdesk/pkg/render/template"
	"github.com/goliatone/go-formdesk/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla/components"
)

// Template names resolved against the template bundle. Theme partials with
// the same keys ("page", "status", "table") override them.
const (
	pageTemplate   = "templates/page.tmpl"
	statusTemplate = "templates/status.tmpl"
	tableTemplate  = "templates/table.tmpl"
)

// DefaultPartials maps theme partial keys to the embedded templates. Theme
// manifests override individual keys.
func DefaultPartials() map[string]string {
	return map[string]string{
		"page":   pageTemplate,
		"status": statusTemplate,
		"table":  tableTemplate,
	}
}

// DefaultTitle is the page heading when none is configured.
const DefaultTitle = "Form Desk"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	title            string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry used for field controls.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(title) != "" {
			cfg.title = strings.TrimSpace(title)
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	title      string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		components: components.NewDefaultRegistry(),
		title:      DefaultTitle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		if cfg.templateFS == nil {
			cfg.templateFS = TemplatesFS()
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		components: cfg.components,
		title:      cfg.title,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full desk page.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	render.LocalizeView(&view, opts)
	page, err := r.pageContext(view, opts)
	if err != nil {
		return nil, err
	}

	status, err := r.templates.RenderTemplate(r.partial(opts, "status", statusTemplate), page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render status: %w", err)
	}
	page["status_html"] = status

	table, err := r.templates.RenderTemplate(r.partial(opts, "table", tableTemplate), page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render table: %w", err)
	}
	page["table_html"] = table

	result, err := r.templates.RenderTemplate(r.partial(opts, "page", pageTemplate), page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) partial(opts render.RenderOptions, key, fallback string) string {
	if opts.Theme != nil {
		if name := strings.TrimSpace(opts.Theme.Partials[key]); name != "" {
			return name
		}
	}
	return fallback
}

func (r *Renderer) pageContext(view render.View, opts render.RenderOptions) (map[string]any, error) {
	base := strings.TrimRight(opts.BasePath, "/")
	hidden := render.SortedHiddenFields(opts.HiddenFields)
	hiddenFields := make([]map[string]any, 0, len(hidden))
	for _, field := range hidden {
		hiddenFields = append(hiddenFields, map[string]any{"name": field.Name, "value": field.Value})
	}

	formTypes := make([]map[string]any, 0, len(view.FormTypes))
	for _, option := range view.FormTypes {
		formTypes = append(formTypes, map[string]any{
			"name":     option.Name,
			"title":    option.Title,
			"selected": option.Selected,
		})
	}

	page := map[string]any{
		"title":         render.Text(opts, "desk.title", r.title),
		"locale":        opts.Locale,
		"base_path":     base,
		"stylesheet":    joinURL(base, "/assets/"+StylesheetName),
		"script":        joinURL(base, "/assets/"+RuntimeScriptName),
		"hidden_fields": hiddenFields,
		"form_types":    formTypes,
		"status":        view.Status,
		"form_errors":   opts.FormErrors,
		"routes": map[string]any{
			"select": joinURL(base, "/form/type"),
			"field":  joinURL(base, "/form/field"),
			"submit": joinURL(base, "/form/submit"),
		},
		"t": func(key, fallback string) string {
			return render.Text(opts, key, fallback)
		},
	}

	fields := newFieldRenderer(r.components, render.Text(opts, "forms.select_placeholder", "Select..."))
	if view.Form != nil {
		var builder strings.Builder
		for _, field := range view.Form.Schema.Fields {
			markup, err := fields.render(field, view.Form.Values[field.Name], opts.Errors[field.Name])
			if err != nil {
				return nil, fmt.Errorf("vanilla renderer: %w", err)
			}
			builder.WriteString(markup)
		}
		page["form"] = map[string]any{
			"name":          view.Form.Schema.Name,
			"title":         view.Form.Schema.DisplayTitle(),
			"description":   view.Form.Schema.Description,
			"fields_html":   builder.String(),
			"progress_html": RenderProgress(view.Form.Progress),
		}
	}

	stylesheets := fields.stylesheets()
	if opts.Theme != nil {
		page["theme_name"] = opts.Theme.Theme
		page["theme_variant"] = opts.Theme.Variant
		page["theme_style"] = render.CSSVarsStyle(opts.Theme.CSSVars)
		if opts.Theme.AssetURL != nil {
			if href := opts.Theme.AssetURL("stylesheet"); href != "" {
				stylesheets = append(stylesheets, href)
			}
		}
	}
	page["stylesheets"] = stylesheets

	columns := make([]map[string]any, 0, len(view.Table.Columns))
	for _, column := range view.Table.Columns {
		columns = append(columns, map[string]any{"key": column.Key, "label": column.Label})
	}
	rows := make([]map[string]any, 0, len(view.Table.Rows))
	for _, row := range view.Table.Rows {
		cells := make([]map[string]any, 0, len(row.Cells))
		for idx, value := range row.Cells {
			column := view.Table.Columns[idx]
			cells = append(cells, map[string]any{"key": column.Key, "label": column.Label, "value": value})
		}
		recordBase := joinURL(base, "/records/"+url.PathEscape(row.ID))
		rows = append(rows, map[string]any{
			"id":         row.ID,
			"number":     row.Index + 1,
			"editing":    row.Editing,
			"cells":      cells,
			"edit_url":   recordBase + "/edit",
			"save_url":   recordBase + "/save",
			"cancel_url": recordBase + "/cancel",
			"delete_url": recordBase + "/delete",
		})
	}
	page["columns"] = columns
	page["rows"] = rows
	return page, nil
}
