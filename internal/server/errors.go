package server

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/records"
	"github.com/goliatone/go-formdesk/pkg/schema"
)

// HTTPError is an error that carries its response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pins an HTTP status to an underlying error.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var (
	errMissingRecordID = errors.New("server: record id is required")
	errEditMismatch    = errors.New("server: record is not being edited")
	errCSRF            = errors.New("server: invalid csrf token")
)

// statusCode maps controller errors to HTTP statuses. Errors that already
// carry a status keep it.
func statusCode(err error) int {
	var httpErr HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, records.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrUnknownFormType), errors.Is(err, form.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrNoFormSelected), errors.Is(err, records.ErrNoEditSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
