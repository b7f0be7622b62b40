// Package desk implements the root controller that owns the record table and
// the status banner, and publishes an event for every table mutation.
package desk

import (
	"fmt"

	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/records"
)

// Status messages shown in the banner after each table mutation.
const (
	StatusAdded   = "Entry added successfully!"
	StatusSaved   = "Changes saved successfully."
	StatusDeleted = "Entry deleted successfully."
)

// EventKind names a table mutation.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventSaved   EventKind = "saved"
	EventDeleted EventKind = "deleted"
)

// Event describes a completed mutation.
type Event struct {
	Kind   EventKind
	Record model.Record
}

// Option configures a Desk.
type Option func(*Desk)

// WithTable supplies the record table, mainly so tests can inject
// deterministic ids and clocks.
func WithTable(table *records.Table) Option {
	return func(d *Desk) {
		if table != nil {
			d.table = table
		}
	}
}

// WithEventHandler registers a handler at construction time.
func WithEventHandler(fn func(Event)) Option {
	return func(d *Desk) {
		d.OnEvent(fn)
	}
}

// Desk is the per-session root controller. It is not safe for concurrent
// use.
type Desk struct {
	table    *records.Table
	status   string
	handlers []func(Event)
}

// New returns a desk with an empty table and no status.
func New(options ...Option) *Desk {
	d := &Desk{}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	if d.table == nil {
		d.table = records.NewTable(nil)
	}
	return d
}

// OnEvent appends a mutation handler. Handlers run synchronously in
// registration order.
func (d *Desk) OnEvent(fn func(Event)) {
	if fn == nil {
		return
	}
	d.handlers = append(d.handlers, fn)
}

// Submit appends a record snapshot and sets the added status. The record's
// id and timestamps are assigned by the table.
func (d *Desk) Submit(record model.Record) model.Record {
	stored := d.table.List().Add(record.FormType, record.Values)
	d.status = StatusAdded
	d.emit(EventAdded, stored)
	return stored
}

// BeginEdit opens an in-place edit of id.
func (d *Desk) BeginEdit(id string) (records.EditSession, error) {
	return d.table.BeginEdit(id)
}

// UpdateDraft changes one field of the open edit draft.
func (d *Desk) UpdateDraft(field, value string) error {
	return d.table.UpdateDraft(field, value)
}

// CommitEdit writes the draft back and sets the saved status.
func (d *Desk) CommitEdit() (model.Record, error) {
	record, err := d.table.CommitEdit()
	if err != nil {
		return model.Record{}, err
	}
	d.status = StatusSaved
	d.emit(EventSaved, record)
	return record, nil
}

// CancelEdit discards the open draft without touching the status.
func (d *Desk) CancelEdit() {
	d.table.CancelEdit()
}

// Delete removes id and sets the deleted status.
func (d *Desk) Delete(id string) (model.Record, error) {
	record, err := d.table.Delete(id)
	if err != nil {
		return model.Record{}, fmt.Errorf("desk: delete: %w", err)
	}
	d.status = StatusDeleted
	d.emit(EventDeleted, record)
	return record, nil
}

// Status returns the current banner text. It stays until replaced or
// cleared.
func (d *Desk) Status() string {
	return d.status
}

// ClearStatus empties the banner.
func (d *Desk) ClearStatus() {
	d.status = ""
}

// Editing reports the open edit session.
func (d *Desk) Editing() (records.EditSession, bool) {
	return d.table.Editing()
}

// Records returns the table rows in order.
func (d *Desk) Records() []model.Record {
	return d.table.Records()
}

// Record returns one row by id.
func (d *Desk) Record(id string) (model.Record, error) {
	return d.table.List().Get(id)
}

// Len reports the row count.
func (d *Desk) Len() int {
	return d.table.List().Len()
}

func (d *Desk) emit(kind EventKind, record model.Record) {
	for _, fn := range d.handlers {
		fn(Event{Kind: kind, Record: record.Clone()})
	}
}
