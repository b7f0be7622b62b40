package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/render"
)

func TestMapErrorPayload_ResolvesFieldPaths(t *testing.T) {
	form := model.FormSchema{
		Name: "User Information",
		Fields: []model.Field{
			{Name: "firstName"},
			{Name: "lastName"},
			{Name: "age"},
		},
	}

	payload := map[string][]string{
		"firstName":             {"This field is required.", " This field is required. "},
		"/body/lastName":        {"Last name missing"},
		"$.values.age":          {"Age must be a number"},
		"non_field_errors":      {"Form level error"},
		"request/body/nickname": {"Should fall back to form errors"},
		"":                      {"Unscoped form error"},
		"age":                   {"  "},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"firstName": {"This field is required."},
		"lastName":  {"Last name missing"},
		"age":       {"Age must be a number"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
