package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/schema"
)

// stubDriver replays scripted answers and reports ErrAborted once a script
// runs dry, the way an interrupted terminal would.
type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	selects      []SelectConfig
	inputCfgs    []InputConfig
	inputPos     int
	passPos      int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", ErrAborted
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", ErrAborted
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, ErrAborted
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) infoContaining(fragment string) []string {
	var out []string
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			out = append(out, msg)
		}
	}
	return out
}

func newTestRenderer(t *testing.T, driver PromptDriver, options ...Option) *Renderer {
	t.Helper()
	options = append([]Option{WithPromptDriver(driver), WithTheme(Theme{})}, options...)
	r, err := New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func newTestController(t *testing.T, formType string, options ...form.Option) (*schema.Registry, *form.Controller) {
	t.Helper()
	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	ctrl := form.NewController(registry, options...)
	if formType != "" {
		if err := ctrl.SelectType(formType); err != nil {
			t.Fatalf("select %q: %v", formType, err)
		}
	}
	return registry, ctrl
}

func TestFill_PromptsByKindAndReportsProgress(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"4111111111111111", "2025-13-01", "2025-12-01", "Ada Lovelace"},
		passwords: []string{"123"},
	}
	r := newTestRenderer(t, driver)
	_, ctrl := newTestController(t, "Payment Information")

	if err := r.Fill(context.Background(), ctrl); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := model.Values{
		"cardNumber":     "4111111111111111",
		"expiryDate":     "2025-12-01",
		"cvv":            "123",
		"cardholderName": "Ada Lovelace",
	}
	if diff := cmp.Diff(want, ctrl.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if got := driver.infoContaining("Invalid Expiry Date"); len(got) != 1 {
		t.Fatalf("expected one date validation message, got %v", driver.infoMessages)
	}

	progress := driver.infoContaining("Progress:")
	wantProgress := []string{"Progress: 25%", "Progress: 50%", "Progress: 75%", "Progress: 100%"}
	if diff := cmp.Diff(wantProgress, progress); diff != "" {
		t.Fatalf("progress messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_DropdownOffersEmptyOptionFirst(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1 Main St", "Austin", ""},
		selectIdx: []int{2},
	}
	r := newTestRenderer(t, driver)
	_, ctrl := newTestController(t, "Address Information")

	if err := r.Fill(context.Background(), ctrl); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := ctrl.Value("state"); got != "Texas" {
		t.Fatalf("expected Texas, got %q", got)
	}
	if len(driver.selects) != 1 {
		t.Fatalf("expected one select prompt, got %d", len(driver.selects))
	}
	cfg := driver.selects[0]
	if cfg.Options[0] != emptyOption || cfg.DefaultIndex != 0 {
		t.Fatalf("expected empty option first and selected, got %+v", cfg)
	}
	if cfg.Message != "State *" {
		t.Fatalf("expected required marker on label, got %q", cfg.Message)
	}
	if got := ctrl.Progress(); got != 100 {
		t.Fatalf("expected 100%% progress with all required filled, got %v", got)
	}
}

func TestFill_NumberRejectsText(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ada", "Lovelace", "old", "36"}}
	r := newTestRenderer(t, driver)
	_, ctrl := newTestController(t, "User Information")

	if err := r.Fill(context.Background(), ctrl); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := ctrl.Value("age"); got != "36" {
		t.Fatalf("expected age 36, got %q", got)
	}
	if got := driver.infoContaining("must be a number"); len(got) != 1 {
		t.Fatalf("expected number validation message, got %v", driver.infoMessages)
	}
}

func TestFill_RequiredOnlyWhenEnforced(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "Ada", "Lovelace", ""}}
	r := newTestRenderer(t, driver)
	_, ctrl := newTestController(t, "User Information", form.WithRequiredEnforcement(true))

	if err := r.Fill(context.Background(), ctrl); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := driver.infoContaining("Invalid First Name: required"); len(got) != 1 {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
	if _, err := ctrl.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestFill_Errors(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{})
	_, idle := newTestController(t, "")
	if err := r.Fill(context.Background(), idle); !errors.Is(err, form.ErrNoFormSelected) {
		t.Fatalf("expected ErrNoFormSelected, got %v", err)
	}

	_, ctrl := newTestController(t, "User Information")
	if err := r.Fill(context.Background(), ctrl); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRun_AddEditDeleteFlow(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			0, 0, // add entry, User Information
			1, 0, // edit entry, first row
			3,    // list
			2, 0, // delete entry, first row
			3,    // list with no rows
			4,    // quit
		},
		inputs: []string{
			"Ada", "Lovelace", "36",
			"Ada", "Byron", "36",
		},
		confirm: []bool{true, true},
	}
	r := newTestRenderer(t, driver)
	registry, ctrl := newTestController(t, "")
	dk := desk.New()

	if err := r.Run(context.Background(), registry, ctrl, dk); err != nil {
		t.Fatalf("run: %v", err)
	}
	if dk.Len() != 0 {
		t.Fatalf("expected empty desk after delete, got %d rows", dk.Len())
	}

	for _, status := range []string{desk.StatusAdded, desk.StatusSaved, desk.StatusDeleted, "No entries yet."} {
		if got := driver.infoContaining(status); len(got) != 1 {
			t.Fatalf("expected one %q message, got %v", status, driver.infoMessages)
		}
	}
	listing := driver.infoContaining("First Name")
	if len(listing) != 1 || !strings.Contains(listing[0], "Byron") {
		t.Fatalf("expected listing with edited row, got %v", listing)
	}

	// Edit prompts default to the stored values.
	edits := driver.inputCfgs[3:6]
	if edits[1].Default != "Lovelace" {
		t.Fatalf("expected edit default Lovelace, got %+v", edits[1])
	}
}

func TestRun_EditWithoutRecords(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 4}}
	r := newTestRenderer(t, driver)
	registry, ctrl := newTestController(t, "")

	if err := r.Run(context.Background(), registry, ctrl, desk.New()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := driver.infoContaining("No entries yet."); len(got) != 1 {
		t.Fatalf("expected empty notice, got %v", driver.infoMessages)
	}
}

func TestEdit_CancelKeepsRecord(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Grace", "Hopper", ""},
		confirm: []bool{false},
	}
	r := newTestRenderer(t, driver)
	registry, _ := newTestController(t, "")
	dk := desk.New()
	record := dk.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Ada", "lastName": "Lovelace", "age": ""}})

	if err := r.Edit(context.Background(), registry, dk, record.ID); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, err := dk.Record(record.ID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got.Values["firstName"] != "Ada" {
		t.Fatalf("expected record untouched after cancel, got %v", got.Values)
	}
	if _, open := dk.Editing(); open {
		t.Fatalf("expected edit session closed")
	}
}

func TestRender_TextTable(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{})
	registry, ctrl := newTestController(t, "")
	dk := desk.New()
	dk.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Ada", "lastName": "Lovelace", "age": "36"}})
	dk.Submit(model.Record{FormType: "Address Information", Values: model.Values{"street": "1 Main St", "city": "Austin", "state": "Texas", "zipCode": ""}})

	out, err := r.Render(context.Background(), render.BuildView(registry, ctrl, dk), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected status, header, and two rows, got %q", text)
	}
	if lines[0] != desk.StatusAdded {
		t.Fatalf("expected status first, got %q", lines[0])
	}
	for _, fragment := range []string{"First Name", "Zip Code", "Lovelace", "Austin"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, text)
		}
	}
	if !strings.HasPrefix(lines[3], "2 ") {
		t.Fatalf("expected second row numbered 2, got %q", lines[3])
	}
}

func TestRender_EmptyDeskOmitsTable(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{})
	registry, ctrl := newTestController(t, "")

	out, err := r.Render(context.Background(), render.BuildView(registry, ctrl, desk.New()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestRender_JSON(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{}, WithOutputFormat(OutputFormatJSON))
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
	registry, ctrl := newTestController(t, "")
	dk := desk.New()
	record := dk.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Ada", "lastName": "Lovelace"}})

	out, err := r.Render(context.Background(), render.BuildView(registry, ctrl, dk), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload tablePayload
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Rows) != 1 || payload.Rows[0].ID != record.ID || payload.Rows[0].Number != 1 {
		t.Fatalf("unexpected rows %+v", payload.Rows)
	}
	if payload.Rows[0].Values["lastName"] != "Lovelace" {
		t.Fatalf("expected lastName value, got %v", payload.Rows[0].Values)
	}
	if payload.Status != desk.StatusAdded {
		t.Fatalf("expected status in payload, got %q", payload.Status)
	}
}
