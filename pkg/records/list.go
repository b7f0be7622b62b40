package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// ErrRecordNotFound is returned when an id does not address a record.
var ErrRecordNotFound = errors.New("records: record not found")

// ListOption configures a List.
type ListOption func(*List)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ListOption {
	return func(l *List) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the record id source.
func WithIDGenerator(next func() string) ListOption {
	return func(l *List) {
		if next != nil {
			l.nextID = next
		}
	}
}

// List is the ordered record sequence. Insertion order equals submission
// order. List is not safe for concurrent use.
type List struct {
	records []model.Record
	now     func() time.Time
	nextID  func() string
}

// NewList returns an empty list using time.Now and uuid.NewString.
func NewList(options ...ListOption) *List {
	l := &List{
		now:    time.Now,
		nextID: uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Add appends a new record built from a copy of values.
func (l *List) Add(formType string, values model.Values) model.Record {
	ts := l.now()
	record := model.Record{
		ID:        l.nextID(),
		FormType:  formType,
		Values:    values.Clone(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	l.records = append(l.records, record)
	return record.Clone()
}

// Get returns a copy of the record with id.
func (l *List) Get(id string) (model.Record, error) {
	idx := l.Index(id)
	if idx < 0 {
		return model.Record{}, notFound(id)
	}
	return l.records[idx].Clone(), nil
}

// Index reports the display position of id, or -1 when absent.
func (l *List) Index(id string) int {
	for idx, record := range l.records {
		if record.ID == id {
			return idx
		}
	}
	return -1
}

// Replace overwrites the values of record id wholesale. No other record is
// touched.
func (l *List) Replace(id string, values model.Values) (model.Record, error) {
	idx := l.Index(id)
	if idx < 0 {
		return model.Record{}, notFound(id)
	}
	l.records[idx].Values = values.Clone()
	l.records[idx].UpdatedAt = l.now()
	return l.records[idx].Clone(), nil
}

// Delete removes record id. Later records shift down one position.
func (l *List) Delete(id string) (model.Record, error) {
	idx := l.Index(id)
	if idx < 0 {
		return model.Record{}, notFound(id)
	}
	removed := l.records[idx]
	l.records = append(l.records[:idx:idx], l.records[idx+1:]...)
	return removed, nil
}

// Records returns copies of all records in order.
func (l *List) Records() []model.Record {
	out := make([]model.Record, len(l.records))
	for i, record := range l.records {
		out[i] = record.Clone()
	}
	return out
}

// Len reports the number of records.
func (l *List) Len() int {
	return len(l.records)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
}
