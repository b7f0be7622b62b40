package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/records"
	"github.com/goliatone/go-formdesk/pkg/render"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "tui"

	emptyOption = "Select..."
	dateLayout  = "2006-01-02"
)

// Menu entries offered by Run, in display order.
const (
	ActionAdd    = "Add entry"
	ActionEdit   = "Edit entry"
	ActionDelete = "Delete entry"
	ActionList   = "List entries"
	ActionQuit   = "Quit"
)

var menu = []string{ActionAdd, ActionEdit, ActionDelete, ActionList, ActionQuit}

// Renderer drives a form desk from a terminal. Fill prompts the fields of the
// selected form type, Run wraps it in the add/edit/delete menu, and Render
// prints the record table.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, text output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatPrettyText,
		theme:        DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render serializes the status banner and record table of view.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	render.LocalizeView(&view, opts)

	if r.outputFormat == OutputFormatJSON {
		out, err := json.MarshalIndent(newTablePayload(view), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode table: %w", err)
		}
		return out, nil
	}
	return r.renderText(view)
}

func (r *Renderer) renderText(view render.View) ([]byte, error) {
	var buf bytes.Buffer
	if view.Status != "" {
		buf.WriteString(r.theme.Status.Render(view.Status))
		buf.WriteByte('\n')
	}
	if !view.Table.Visible() {
		return buf.Bytes(), nil
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	header := []string{"#"}
	for _, column := range view.Table.Columns {
		header = append(header, column.Label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range view.Table.Rows {
		number := strconv.Itoa(row.Index + 1)
		if row.Editing {
			number += "*"
		}
		fmt.Fprintln(tw, number+"\t"+strings.Join(row.Cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("tui: write table: %w", err)
	}
	return buf.Bytes(), nil
}

type tablePayload struct {
	Status  string           `json:"status,omitempty"`
	Columns []records.Column `json:"columns"`
	Rows    []rowPayload     `json:"rows"`
}

type rowPayload struct {
	ID       string            `json:"id"`
	Number   int               `json:"number"`
	FormType string            `json:"formType,omitempty"`
	Editing  bool              `json:"editing,omitempty"`
	Values   map[string]string `json:"values"`
}

func newTablePayload(view render.View) tablePayload {
	payload := tablePayload{
		Status:  view.Status,
		Columns: view.Table.Columns,
		Rows:    make([]rowPayload, 0, len(view.Table.Rows)),
	}
	if payload.Columns == nil {
		payload.Columns = []records.Column{}
	}
	for _, row := range view.Table.Rows {
		values := make(map[string]string, len(view.Table.Columns))
		for idx, column := range view.Table.Columns {
			if idx < len(row.Cells) {
				values[column.Key] = row.Cells[idx]
			}
		}
		payload.Rows = append(payload.Rows, rowPayload{
			ID:       row.ID,
			Number:   row.Index + 1,
			FormType: row.FormType,
			Editing:  row.Editing,
			Values:   values,
		})
	}
	return payload
}

// Fill prompts every field of the selected form type in schema order, feeds
// each answer through the controller, and reports progress after each one.
func (r *Renderer) Fill(ctx context.Context, ctrl *form.Controller) error {
	if ctrl == nil {
		return errors.New("tui: form controller is nil")
	}
	schema, ok := ctrl.Schema()
	if !ok {
		return form.ErrNoFormSelected
	}
	if title := schema.DisplayTitle(); title != "" {
		if err := r.driver.Info(ctx, r.theme.Heading.Render(title)); err != nil {
			return err
		}
	}

	for _, field := range schema.Fields {
		value, err := r.promptField(ctx, field, ctrl.Value(field.Name), ctrl.EnforcesRequired())
		if err != nil {
			return err
		}
		progress, err := ctrl.SetFieldValue(field.Name, value)
		if err != nil {
			return err
		}
		if err := r.info(ctx, fmt.Sprintf("Progress: %d%%", percent(progress))); err != nil {
			return err
		}
	}
	return nil
}

// Edit opens an edit session for the record, prompts each of its keys with
// the current value as default, and saves or cancels on confirmation.
func (r *Renderer) Edit(ctx context.Context, lookup records.SchemaLookup, dk *desk.Desk, id string) error {
	if dk == nil {
		return errors.New("tui: desk is nil")
	}
	session, err := dk.BeginEdit(id)
	if err != nil {
		return err
	}
	record, err := dk.Record(id)
	if err != nil {
		dk.CancelEdit()
		return err
	}

	for _, field := range editFields(record, lookup) {
		value, err := r.promptField(ctx, field, session.Draft[field.Name], false)
		if err != nil {
			dk.CancelEdit()
			return err
		}
		if err := dk.UpdateDraft(field.Name, value); err != nil {
			dk.CancelEdit()
			return err
		}
	}

	save, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Save changes?", Default: true})
	if err != nil {
		dk.CancelEdit()
		return err
	}
	if !save {
		dk.CancelEdit()
		return r.info(ctx, "Edit cancelled.")
	}
	if _, err := dk.CommitEdit(); err != nil {
		return err
	}
	return r.status(ctx, dk.Status())
}

// Run loops over the desk menu until the user quits or aborts. Aborting with
// Ctrl+C surfaces ErrAborted.
func (r *Renderer) Run(ctx context.Context, catalog render.SchemaCatalog, ctrl *form.Controller, dk *desk.Desk) error {
	if ctrl == nil || dk == nil {
		return errors.New("tui: form controller and desk are required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(menu) || menu[idx] == ActionQuit {
			return nil
		}

		switch menu[idx] {
		case ActionAdd:
			err = r.addEntry(ctx, catalog, ctrl, dk)
		case ActionEdit:
			var id string
			if id, err = r.pickRecord(ctx, catalog, dk, "Edit which entry?"); err == nil {
				err = r.Edit(ctx, catalog, dk, id)
			}
		case ActionDelete:
			err = r.deleteEntry(ctx, catalog, dk)
		case ActionList:
			err = r.list(ctx, catalog, ctrl, dk)
		}

		if errors.Is(err, ErrNoRecords) {
			if err := r.info(ctx, "No entries yet."); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (r *Renderer) addEntry(ctx context.Context, catalog render.SchemaCatalog, ctrl *form.Controller, dk *desk.Desk) error {
	if catalog == nil {
		return errors.New("tui: schema catalog is nil")
	}
	schemas := catalog.Schemas()
	if len(schemas) == 0 {
		return errors.New("tui: no form types configured")
	}
	titles := make([]string, len(schemas))
	current := 0
	for i, schema := range schemas {
		titles[i] = schema.DisplayTitle()
		if schema.Name == ctrl.Selected() {
			current = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Choose a form type",
		Options:      titles,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(schemas) {
		return fmt.Errorf("tui: form type selection %d out of range", idx)
	}
	if err := ctrl.SelectType(schemas[idx].Name); err != nil {
		return err
	}

	if err := r.Fill(ctx, ctrl); err != nil {
		return err
	}
	record, err := ctrl.Submit()
	if err != nil {
		return err
	}
	dk.Submit(record)
	return r.status(ctx, dk.Status())
}

func (r *Renderer) deleteEntry(ctx context.Context, lookup records.SchemaLookup, dk *desk.Desk) error {
	id, err := r.pickRecord(ctx, lookup, dk, "Delete which entry?")
	if err != nil {
		return err
	}
	confirm, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Delete this entry?"})
	if err != nil || !confirm {
		return err
	}
	if _, err := dk.Delete(id); err != nil {
		return err
	}
	return r.status(ctx, dk.Status())
}

func (r *Renderer) list(ctx context.Context, catalog render.SchemaCatalog, ctrl *form.Controller, dk *desk.Desk) error {
	if dk.Len() == 0 {
		return ErrNoRecords
	}
	view := render.BuildView(catalog, ctrl, dk)
	view.Status = ""
	out, err := r.renderText(view)
	if err != nil {
		return err
	}
	return r.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}

func (r *Renderer) pickRecord(ctx context.Context, lookup records.SchemaLookup, dk *desk.Desk, message string) (string, error) {
	rows := dk.Records()
	if len(rows) == 0 {
		return "", ErrNoRecords
	}
	columns := records.Columns(rows, lookup)
	options := make([]string, len(rows))
	for i, record := range rows {
		options[i] = fmt.Sprintf("%d. %s", i+1, summarize(records.Cells(record, columns)))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(rows) {
		return "", fmt.Errorf("tui: record selection %d out of range", idx)
	}
	return rows[idx].ID, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current string, required bool) (string, error) {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	help := strings.TrimSpace(field.Description)
	if help == "" {
		help = strings.TrimSpace(field.Placeholder)
	}

	for {
		var (
			value string
			err   error
		)
		cfg := InputConfig{Message: label, Default: current, Help: help}
		switch field.Kind {
		case model.FieldKindDropdown:
			value, err = r.promptSelect(ctx, field, label, help, current)
		case model.FieldKindPassword:
			value, err = r.driver.Password(ctx, cfg)
		default:
			value, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return "", err
		}

		if err := checkValue(field, value, required); err != nil {
			if err := r.fail(ctx, fmt.Sprintf("Invalid %s: %v", field.DisplayLabel(), err)); err != nil {
				return "", err
			}
			continue
		}
		return value, nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, label, help, current string) (string, error) {
	options := append([]string{emptyOption}, field.Options...)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: indexOf(field.Options, current) + 1,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx <= 0 {
		return "", nil
	}
	if idx >= len(options) {
		return "", fmt.Errorf("tui: option %d out of range for %q", idx, field.Name)
	}
	return options[idx], nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.Error.Render(r.theme.ErrorPrefix+msg))
}

func (r *Renderer) status(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.Status.Render(msg))
}

// checkValue applies the constraints a browser enforces natively for number
// and date inputs, plus the required flag when the controller enforces it.
func checkValue(field model.Field, value string, required bool) error {
	if value == "" {
		if required && field.Required {
			return errors.New("required")
		}
		return nil
	}
	switch field.Kind {
	case model.FieldKindNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return errors.New("must be a number")
		}
	case model.FieldKindDate:
		if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
			return errors.New("must be a date (YYYY-MM-DD)")
		}
	}
	return nil
}

// editFields lists the record's keys in column order, borrowing kinds and
// options from the record's schema when it is still registered.
func editFields(record model.Record, lookup records.SchemaLookup) []model.Field {
	var schema *model.FormSchema
	if lookup != nil && record.FormType != "" {
		if found, err := lookup.Lookup(record.FormType); err == nil {
			schema = &found
		}
	}
	columns := records.Columns([]model.Record{record}, lookup)
	fields := make([]model.Field, 0, len(columns))
	for _, column := range columns {
		if schema != nil {
			if field, ok := schema.Field(column.Key); ok {
				fields = append(fields, field)
				continue
			}
		}
		fields = append(fields, model.Field{Name: column.Key, Kind: model.FieldKindText, Label: column.Label})
	}
	return fields
}

func summarize(cells []string) string {
	var parts []string
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		parts = append(parts, cell)
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " / ")
}

func percent(progress float64) int {
	return int(math.Round(progress))
}
