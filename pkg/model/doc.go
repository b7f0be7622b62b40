// Package model defines the typed form desk model shared by the schema
// registry, the form and record controllers, and the renderers. A FormSchema
// is an ordered list of Field descriptors keyed by form type name; a Record is
// one submitted instance of a schema, addressed by a stable ID rather than its
// position in the record list. Field kinds are deliberately small (text,
// number, password, date, dropdown) and unknown kinds degrade to a plain text
// input instead of failing.
package model
