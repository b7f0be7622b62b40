package records

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// ErrNoEditSession is returned by draft operations when no row is being
// edited.
var ErrNoEditSession = errors.New("records: no edit session open")

// EditSession is the draft state of the single row being edited in place.
type EditSession struct {
	RecordID string
	Draft    model.Values
}

// Table wraps a List with at most one open EditSession.
type Table struct {
	list    *List
	editing *EditSession
}

// NewTable builds a table over list. A nil list gets a fresh one.
func NewTable(list *List) *Table {
	if list == nil {
		list = NewList()
	}
	return &Table{list: list}
}

// List exposes the underlying record list.
func (t *Table) List() *List {
	return t.list
}

// BeginEdit opens an edit session for id seeded with a copy of its values.
// Any other open session is discarded.
func (t *Table) BeginEdit(id string) (EditSession, error) {
	record, err := t.list.Get(id)
	if err != nil {
		return EditSession{}, err
	}
	t.editing = &EditSession{RecordID: record.ID, Draft: record.Values.Clone()}
	session, _ := t.Editing()
	return session, nil
}

// UpdateDraft sets one field of the open draft.
func (t *Table) UpdateDraft(field, value string) error {
	if t.editing == nil {
		return ErrNoEditSession
	}
	t.editing.Draft[field] = value
	return nil
}

// CommitEdit replaces the edited record with the draft and closes the
// session.
func (t *Table) CommitEdit() (model.Record, error) {
	if t.editing == nil {
		return model.Record{}, ErrNoEditSession
	}
	record, err := t.list.Replace(t.editing.RecordID, t.editing.Draft)
	t.editing = nil
	if err != nil {
		return model.Record{}, fmt.Errorf("records: commit edit: %w", err)
	}
	return record, nil
}

// CancelEdit discards the open draft. It is a no-op without a session.
func (t *Table) CancelEdit() {
	t.editing = nil
}

// Delete removes id, closing the edit session when it targeted that row.
func (t *Table) Delete(id string) (model.Record, error) {
	record, err := t.list.Delete(id)
	if err != nil {
		return model.Record{}, err
	}
	if t.editing != nil && t.editing.RecordID == id {
		t.editing = nil
	}
	return record, nil
}

// Editing returns a copy of the open session.
func (t *Table) Editing() (EditSession, bool) {
	if t.editing == nil {
		return EditSession{}, false
	}
	return EditSession{
		RecordID: t.editing.RecordID,
		Draft:    t.editing.Draft.Clone(),
	}, true
}

// Records returns the table rows in order.
func (t *Table) Records() []model.Record {
	return t.list.Records()
}

// Visible reports whether the table renders at all.
func (t *Table) Visible() bool {
	return t.list.Len() > 0
}
