package render

import (
	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/records"
)

// View is the renderer-facing snapshot of one session: the selection
// control, the active form, the status banner, and the record table.
type View struct {
	FormTypes []FormTypeOption
	Form      *FormView
	Status    string
	Table     TableView
}

// FormTypeOption is one entry of the form type selection control.
type FormTypeOption struct {
	Name     string
	Title    string
	Selected bool
}

// FormView is the active form with its current values.
type FormView struct {
	Schema   model.FormSchema
	Values   model.Values
	Progress float64
}

// TableView is the record table. It renders only when Rows is non-empty.
type TableView struct {
	Columns []records.Column
	Rows    []RowView
}

// Visible reports whether the table should render.
func (t TableView) Visible() bool {
	return len(t.Rows) > 0
}

// RowView is one record row. Editing rows carry the draft values in Cells.
type RowView struct {
	ID       string
	Index    int
	FormType string
	Cells    []string
	Editing  bool
}

// SchemaCatalog exposes the registered form types. *schema.Registry
// satisfies it.
type SchemaCatalog interface {
	Schemas() []model.FormSchema
	Lookup(name string) (model.FormSchema, error)
}

// BuildView snapshots controller state into a View. Callers hold the session
// lock while building.
func BuildView(catalog SchemaCatalog, ctrl *form.Controller, dk *desk.Desk) View {
	var view View
	selected := ""
	if ctrl != nil {
		selected = ctrl.Selected()
	}
	if catalog != nil {
		for _, schema := range catalog.Schemas() {
			view.FormTypes = append(view.FormTypes, FormTypeOption{
				Name:     schema.Name,
				Title:    schema.DisplayTitle(),
				Selected: schema.Name == selected,
			})
		}
	}

	if ctrl != nil {
		if schema, ok := ctrl.Schema(); ok {
			view.Form = &FormView{
				Schema:   schema,
				Values:   ctrl.Values(),
				Progress: ctrl.Progress(),
			}
		}
	}

	if dk == nil {
		return view
	}
	view.Status = dk.Status()

	rows := dk.Records()
	if len(rows) == 0 {
		return view
	}
	var lookup records.SchemaLookup
	if catalog != nil {
		lookup = catalog
	}
	view.Table.Columns = records.Columns(rows, lookup)
	editing, open := dk.Editing()
	for idx, record := range rows {
		row := RowView{
			ID:       record.ID,
			Index:    idx,
			FormType: record.FormType,
		}
		if open && editing.RecordID == record.ID {
			row.Editing = true
			record.Values = editing.Draft
		}
		row.Cells = records.Cells(record, view.Table.Columns)
		view.Table.Rows = append(view.Table.Rows, row)
	}
	return view
}
