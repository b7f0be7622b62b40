package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/schema"
)

func TestRegistry_RegisterLookupAndOrder(t *testing.T) {
	registry := schema.NewRegistry()
	registry.MustRegister(model.FormSchema{
		Name:   "Zeta",
		Fields: []model.Field{{Name: "a"}},
	})
	registry.MustRegister(model.FormSchema{
		Name:   "Alpha",
		Fields: []model.Field{{Name: "zipCode", Kind: "TEXT"}},
	})

	if diff := cmp.Diff([]string{"Zeta", "Alpha"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	form, err := registry.Lookup("Alpha")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if form.Fields[0].Label != "Zip Code" {
		t.Fatalf("expected derived label, got %q", form.Fields[0].Label)
	}
	if form.Fields[0].Kind != model.FieldKindText {
		t.Fatalf("expected normalised kind, got %q", form.Fields[0].Kind)
	}

	form.Fields[0].Name = "mutated"
	again, _ := registry.Lookup("Alpha")
	if again.Fields[0].Name != "zipCode" {
		t.Fatalf("expected lookup to return a copy")
	}
}

func TestRegistry_RejectsDuplicatesAndInvalid(t *testing.T) {
	registry := schema.NewRegistry()
	registry.MustRegister(model.FormSchema{Name: "One", Fields: []model.Field{{Name: "a"}}})

	if err := registry.Register(model.FormSchema{Name: "One", Fields: []model.Field{{Name: "b"}}}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(model.FormSchema{Name: "Two", Fields: []model.Field{{Name: "a"}, {Name: "a"}}}); err == nil {
		t.Fatalf("expected duplicate field names to fail")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected failed registrations to leave registry untouched, got %d", registry.Len())
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Lookup("Nope")
	if !errors.Is(err, schema.ErrUnknownFormType) {
		t.Fatalf("expected ErrUnknownFormType, got %v", err)
	}
	if !strings.Contains(err.Error(), "Nope") {
		t.Fatalf("expected error to name the form type, got %v", err)
	}
}

func TestDefault_MatchesBuiltInForms(t *testing.T) {
	registry := schema.MustDefault()

	want := []string{"User Information", "Address Information", "Payment Information"}
	if diff := cmp.Diff(want, registry.Names()); diff != "" {
		t.Fatalf("default names mismatch (-want +got):\n%s", diff)
	}

	address, err := registry.Lookup("Address Information")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	state, ok := address.Field("state")
	if !ok {
		t.Fatalf("expected state field")
	}
	if state.Kind != model.FieldKindDropdown || !state.Required {
		t.Fatalf("unexpected state descriptor: %+v", state)
	}
	if diff := cmp.Diff([]string{"California", "Texas", "New York"}, state.Options); diff != "" {
		t.Fatalf("state options mismatch (-want +got):\n%s", diff)
	}

	payment, _ := registry.Lookup("Payment Information")
	if got := len(payment.RequiredFields()); got != 4 {
		t.Fatalf("expected 4 required payment fields, got %d", got)
	}
	cvv, _ := payment.Field("cvv")
	if cvv.Kind != model.FieldKindPassword || cvv.Label != "CVV" {
		t.Fatalf("unexpected cvv descriptor: %+v", cvv)
	}

	user, _ := registry.Lookup("User Information")
	age, _ := user.Field("age")
	if age.Kind != model.FieldKindNumber || age.Required {
		t.Fatalf("unexpected age descriptor: %+v", age)
	}
}
