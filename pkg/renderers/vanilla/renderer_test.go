package vanilla_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/records"
	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdesk/pkg/testsupport"
)

func renderPage(t *testing.T, view render.View, opts render.RenderOptions) string {
	t.Helper()
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_IdlePage(t *testing.T) {
	registry := testsupport.Registry(t)
	view := render.BuildView(registry, form.NewController(registry), desk.New())

	page := renderPage(t, view, render.RenderOptions{
		BasePath:     "/desk/",
		HiddenFields: map[string]string{render.CSRFFieldName: "tok"},
	})

	for _, want := range []string{
		`<title>Form Desk</title>`,
		`href="/desk/assets/formdesk.css"`,
		`src="/desk/assets/formdesk.js"`,
		`action="/desk/form/type"`,
		`<option value="User Information">User Information</option>`,
		`<option value="Payment Information">Payment Information</option>`,
		`<input type="hidden" name="_csrf" value="tok">`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
	for _, unwanted := range []string{"fd-status", "fd-table", "data-fd-form", "data-fd-progress"} {
		if strings.Contains(page, unwanted) {
			t.Fatalf("did not expect %q in idle page:\n%s", unwanted, page)
		}
	}
}

func TestRenderer_FormStatusAndTable(t *testing.T) {
	registry := testsupport.Registry(t)
	ctrl := form.NewController(registry)
	dk := desk.New(desk.WithTable(records.NewTable(records.NewList(records.WithIDGenerator(testsupport.SequentialIDs("rec"))))))

	if err := ctrl.SelectType("Address Information"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := ctrl.SetFieldValue("state", "Texas"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	dk.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Ada", "lastName": "Lovelace"}})
	dk.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Grace", "lastName": "Hopper"}})
	if _, err := dk.BeginEdit("rec-2"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}

	view := render.BuildView(registry, ctrl, dk)
	page := renderPage(t, view, render.RenderOptions{
		Errors: map[string][]string{"street": {"This field is required."}},
	})

	for _, want := range []string{
		`<option value="Address Information" selected>`,
		`<h2 id="fd-form-title">Address Information</h2>`,
		`aria-valuenow="33"`,
		`<option value="Texas" selected>Texas</option>`,
		`data-fd-field-url="/form/field"`,
		`action="/form/submit"`,
		`This field is required.`,
		`<div class="fd-status" role="status" aria-live="polite">Entry added successfully!</div>`,
		`<th scope="col" data-fd-column="firstName">First Name</th>`,
		`<td>Ada</td>`,
		`action="/records/rec-1/edit"`,
		`action="/records/rec-1/delete"`,
		`name="lastName" value="Hopper"`,
		`action="/records/rec-2/save"`,
		`action="/records/rec-2/cancel"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
	if strings.Contains(page, `action="/records/rec-2/edit"`) {
		t.Fatalf("editing row should not offer an edit button")
	}
}

func TestRenderer_ThemeAndTranslations(t *testing.T) {
	registry := testsupport.Registry(t)
	view := render.BuildView(registry, form.NewController(registry), desk.New())

	page := renderPage(t, view, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--brand": "#654321"},
			AssetURL: func(key string) string {
				if key == "stylesheet" {
					return "/themes/acme/theme.css"
				}
				return ""
			},
		},
		Translator: translator{"desk.title": "Mesa de formularios"},
	})

	for _, want := range []string{
		`data-theme="acme" data-theme-variant="dark"`,
		"--brand: #654321;",
		`href="/themes/acme/theme.css"`,
		`<title>Mesa de formularios</title>`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, render.View{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}

type translator map[string]string

func (t translator) Translate(_, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", context.Canceled
}
