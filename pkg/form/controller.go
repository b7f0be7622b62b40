package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesk/pkg/model"
)

// SchemaSource resolves form type names to schemas. *schema.Registry
// satisfies it.
type SchemaSource interface {
	Lookup(name string) (model.FormSchema, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithProgressMode selects the progress snapshot rule.
func WithProgressMode(mode ProgressMode) Option {
	return func(c *Controller) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// WithRequiredEnforcement makes Submit reject forms with empty required
// fields instead of relying solely on the browser's native constraint.
func WithRequiredEnforcement(enabled bool) Option {
	return func(c *Controller) {
		c.enforceRequired = enabled
	}
}

// Controller is the per-session form state machine:
//
//	no type selected -> type selected (values={}, progress=0)
//	                 -> value changes (values/progress updated)
//	                 -> submit (emits Record, state kept until the type changes)
type Controller struct {
	source          SchemaSource
	mode            ProgressMode
	enforceRequired bool

	selected string
	form     model.FormSchema
	values   model.Values
	progress float64
}

// NewController builds a controller over the provided schema source.
func NewController(source SchemaSource, options ...Option) *Controller {
	c := &Controller{
		source: source,
		mode:   ProgressAfterWrite,
		values: model.Values{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// SelectType loads the schema for name, clears all values, and resets
// progress to 0. Unsaved input is discarded without confirmation. An empty
// name returns the controller to the "no type selected" state. Unknown names
// leave the current state untouched.
func (c *Controller) SelectType(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		c.selected = ""
		c.form = model.FormSchema{}
		c.values = model.Values{}
		c.progress = 0
		return nil
	}
	if c.source == nil {
		return fmt.Errorf("form: schema source is nil")
	}

	form, err := c.source.Lookup(name)
	if err != nil {
		return err
	}
	c.selected = form.Name
	c.form = form
	c.values = model.Values{}
	c.progress = 0
	return nil
}

// SetFieldValue records value for the named field and returns the updated
// progress.
func (c *Controller) SetFieldValue(name, value string) (float64, error) {
	if c.selected == "" {
		return 0, ErrNoFormSelected
	}
	if _, ok := c.form.Field(name); !ok {
		return c.progress, fmt.Errorf("%w: %q in form %q", ErrUnknownField, name, c.selected)
	}

	previous := c.values.Clone()
	c.values[name] = value

	switch c.mode {
	case ProgressBeforeWrite:
		c.progress = Progress(c.form, previous)
	default:
		c.progress = Progress(c.form, c.values)
	}
	return c.progress, nil
}

// SetValues applies a full set of posted values in schema order. Fields
// missing from values are left as they are; names the schema does not
// declare are ignored. An empty value for a field that was never set is
// skipped, since a browser posts every control including untouched ones.
func (c *Controller) SetValues(values map[string]string) (float64, error) {
	if c.selected == "" {
		return 0, ErrNoFormSelected
	}
	for _, field := range c.form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if _, set := c.values[field.Name]; !set && value == "" {
			continue
		}
		if _, err := c.SetFieldValue(field.Name, value); err != nil {
			return c.progress, err
		}
	}
	return c.progress, nil
}

// Submit snapshots the current values into a new Record. The form keeps its
// values and progress afterwards.
func (c *Controller) Submit() (model.Record, error) {
	if c.selected == "" {
		return model.Record{}, ErrNoFormSelected
	}
	if c.enforceRequired {
		if missing := c.missingRequired(); len(missing) > 0 {
			return model.Record{}, &ValidationError{FormType: c.selected, Missing: missing}
		}
	}
	return model.Record{
		FormType: c.selected,
		Values:   c.values.Clone(),
	}, nil
}

func (c *Controller) missingRequired() []string {
	var missing []string
	for _, field := range c.form.RequiredFields() {
		if strings.TrimSpace(c.values[field.Name]) == "" {
			missing = append(missing, field.Name)
		}
	}
	return missing
}

// Selected returns the selected form type name, or "" when none.
func (c *Controller) Selected() string {
	return c.selected
}

// Schema returns the loaded schema and whether a type is selected.
func (c *Controller) Schema() (model.FormSchema, bool) {
	if c.selected == "" {
		return model.FormSchema{}, false
	}
	return c.form.Clone(), true
}

// Values returns a copy of the current values.
func (c *Controller) Values() model.Values {
	return c.values.Clone()
}

// Value returns the current value of a single field.
func (c *Controller) Value(name string) string {
	return c.values[name]
}

// Progress returns the last computed progress.
func (c *Controller) Progress() float64 {
	return c.progress
}

// Mode reports the active progress rule.
func (c *Controller) Mode() ProgressMode {
	return c.mode
}

// EnforcesRequired reports whether Submit checks required fields.
func (c *Controller) EnforcesRequired() bool {
	return c.enforceRequired
}
