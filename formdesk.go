// Package formdesk wires the form desk packages together for applications
// that want a working desk without assembling every piece themselves.
package formdesk

import (
	"context"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/renderers/tui"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdesk/pkg/schema"
	"github.com/goliatone/go-formdesk/pkg/session"
)

// FormSchema aliases model.FormSchema for callers registering forms in code.
type FormSchema = model.FormSchema

// Field aliases model.Field.
type Field = model.Field

// Record aliases model.Record.
type Record = model.Record

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Sources selects where form types are loaded from. When both are empty the
// embedded defaults are used; when both are set their forms are merged and
// duplicate names are rejected.
type Sources struct {
	Dir     string
	OpenAPI string
}

// NewRegistry returns an empty schema registry.
func NewRegistry() *schema.Registry {
	return schema.NewRegistry()
}

// LoadRegistry resolves sources into a registry.
func LoadRegistry(ctx context.Context, sources Sources) (*schema.Registry, error) {
	dir := strings.TrimSpace(sources.Dir)
	spec := strings.TrimSpace(sources.OpenAPI)

	if dir == "" && spec == "" {
		return schema.Default()
	}

	registry := schema.NewRegistry()
	if dir != "" {
		loaded, err := schema.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		registry = loaded
	}
	if spec != "" {
		imported, err := schema.FromOpenAPIFile(ctx, spec)
		if err != nil {
			return nil, err
		}
		for _, form := range imported.Schemas() {
			if err := registry.Register(form); err != nil {
				return nil, fmt.Errorf("formdesk: merge %s: %w", spec, err)
			}
		}
	}
	if registry.Len() == 0 {
		return nil, fmt.Errorf("formdesk: no form types found in %+v", sources)
	}
	return registry, nil
}

// NewDesk returns a form controller and an empty desk over registry, the pair
// one session (or one terminal run) works with.
func NewDesk(registry *schema.Registry, options ...form.Option) (*form.Controller, *desk.Desk) {
	return form.NewController(registry, options...), desk.New()
}

// NewSessionFactory builds the per-session state constructor for a
// session.Store.
func NewSessionFactory(registry *schema.Registry, options ...form.Option) session.Factory {
	return func() (*form.Controller, *desk.Desk) {
		return NewDesk(registry, options...)
	}
}

// NewRendererRegistry registers the HTML renderer and the terminal renderer.
func NewRendererRegistry(vanillaOptions []vanilla.Option, tuiOptions []tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New(vanillaOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	terminal, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadTheme reads a YAML theme manifest and resolves variant against it.
// The vanilla templates back any partial the manifest does not override. An
// empty file yields a nil config, which renders without a theme.
func LoadTheme(file, variant string) (*theme.RendererConfig, error) {
	if strings.TrimSpace(file) == "" {
		return nil, nil
	}
	return render.LoadThemeFile(file, variant, vanilla.DefaultPartials())
}
