package schema_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/schema"
)

const signupDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Signup", "version": "1.0.0"},
  "paths": {
    "/signup": {
      "post": {
        "operationId": "createSignup",
        "summary": "Signup",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "plan"],
                "properties": {
                  "email": {"type": "string", "x-formdesk-order": 1},
                  "secret": {"type": "string", "format": "password", "x-formdesk-order": 2},
                  "plan": {"type": "string", "enum": ["free", "pro"], "title": "Plan", "x-formdesk-order": 3},
                  "startDate": {"type": "string", "format": "date"},
                  "seats": {"type": "integer"}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    },
    "/status": {
      "get": {
        "operationId": "status",
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestFromOpenAPI_BuildsFormsFromRequestBodies(t *testing.T) {
	registry, err := schema.FromOpenAPI(context.Background(), []byte(signupDocument))
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	if diff := cmp.Diff([]string{"Signup"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	form, _ := registry.Lookup("Signup")
	if diff := cmp.Diff([]string{"email", "secret", "plan", "seats", "startDate"}, form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]model.FieldKind{}
	for _, field := range form.Fields {
		kinds[field.Name] = field.Kind
	}
	wantKinds := map[string]model.FieldKind{
		"email":     model.FieldKindText,
		"secret":    model.FieldKindPassword,
		"plan":      model.FieldKindDropdown,
		"seats":     model.FieldKindNumber,
		"startDate": model.FieldKindDate,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	plan, _ := form.Field("plan")
	if !plan.Required || plan.Label != "Plan" {
		t.Fatalf("unexpected plan descriptor: %+v", plan)
	}
	if diff := cmp.Diff([]string{"free", "pro"}, plan.Options); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
	start, _ := form.Field("startDate")
	if start.Required || start.Label != "Start Date" {
		t.Fatalf("unexpected startDate descriptor: %+v", start)
	}
}

func TestFromOpenAPI_NoFormOperations(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "Empty", "version": "1.0.0"},
  "paths": {"/status": {"get": {"responses": {"200": {"description": "ok"}}}}}
}`
	_, err := schema.FromOpenAPI(context.Background(), []byte(doc))
	if err == nil || !strings.Contains(err.Error(), "no operations") {
		t.Fatalf("expected no operations error, got %v", err)
	}
}

func TestFromOpenAPI_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := schema.FromOpenAPI(ctx, []byte(signupDocument)); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}
