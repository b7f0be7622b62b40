package desk_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/records"
	"github.com/goliatone/go-formdesk/pkg/schema"
	"github.com/goliatone/go-formdesk/pkg/testsupport"
)

func newDesk(events *[]desk.Event) *desk.Desk {
	list := records.NewList(records.WithIDGenerator(testsupport.SequentialIDs("row")))
	return desk.New(
		desk.WithTable(records.NewTable(list)),
		desk.WithEventHandler(func(evt desk.Event) {
			if events != nil {
				*events = append(*events, evt)
			}
		}),
	)
}

func TestDesk_SubmitScenario(t *testing.T) {
	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	ctrl := form.NewController(registry)
	var events []desk.Event
	d := newDesk(&events)

	if err := ctrl.SelectType("User Information"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := ctrl.SetFieldValue("firstName", "Ada"); err != nil {
		t.Fatalf("set firstName: %v", err)
	}
	if _, err := ctrl.SetFieldValue("lastName", "Lovelace"); err != nil {
		t.Fatalf("set lastName: %v", err)
	}
	record, err := ctrl.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	d.Submit(record)

	rows := d.Records()
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	if diff := cmp.Diff(model.Values{"firstName": "Ada", "lastName": "Lovelace"}, rows[0].Values); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if d.Status() != desk.StatusAdded {
		t.Fatalf("expected added status, got %q", d.Status())
	}
	if len(events) != 1 || events[0].Kind != desk.EventAdded || events[0].Record.ID != "row-1" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestDesk_EditSaveScenario(t *testing.T) {
	var events []desk.Event
	d := newDesk(&events)
	d.Submit(model.Record{FormType: "User Information", Values: model.Values{"firstName": "Ada", "lastName": "Lovelace"}})

	if _, err := d.BeginEdit("row-1"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := d.UpdateDraft("lastName", "King"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if _, err := d.CommitEdit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	rows := d.Records()
	if len(rows) != 1 || rows[0].Values["lastName"] != "King" || rows[0].ID != "row-1" {
		t.Fatalf("expected row updated in place, got %+v", rows)
	}
	if _, open := d.Editing(); open {
		t.Fatalf("expected edit session closed")
	}
	if d.Status() != desk.StatusSaved {
		t.Fatalf("expected saved status, got %q", d.Status())
	}
	if events[len(events)-1].Kind != desk.EventSaved {
		t.Fatalf("expected saved event, got %+v", events[len(events)-1])
	}
}

func TestDesk_DeleteScenario(t *testing.T) {
	d := newDesk(nil)
	d.Submit(model.Record{FormType: "A", Values: model.Values{"n": "first"}})
	d.Submit(model.Record{FormType: "A", Values: model.Values{"n": "second"}})

	if _, err := d.Delete(d.Records()[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows := d.Records()
	if len(rows) != 1 || rows[0].Values["n"] != "second" {
		t.Fatalf("expected only the formerly second record, got %+v", rows)
	}
	if d.Status() != desk.StatusDeleted {
		t.Fatalf("expected deleted status, got %q", d.Status())
	}
}

func TestDesk_FailuresKeepStatus(t *testing.T) {
	var events []desk.Event
	d := newDesk(&events)
	d.Submit(model.Record{FormType: "A", Values: model.Values{"n": "1"}})

	if _, err := d.Delete("missing"); !errors.Is(err, records.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := d.CommitEdit(); !errors.Is(err, records.ErrNoEditSession) {
		t.Fatalf("expected ErrNoEditSession, got %v", err)
	}
	if d.Status() != desk.StatusAdded || len(events) != 1 {
		t.Fatalf("expected failed operations to leave status and events alone")
	}

	d.ClearStatus()
	if d.Status() != "" {
		t.Fatalf("expected cleared status")
	}
}
