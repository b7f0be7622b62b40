// Package form implements the form controller: it owns the selected form
// type, the values typed so far, and the derived progress, and emits a
// Record snapshot on submit. A Controller is not safe for concurrent use;
// callers serialise access per session.
package form
