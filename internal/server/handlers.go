package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/model"
	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/session"
)

const requiredFieldsMessage = "Please fill in all required fields."

type dataResponse struct {
	Data any `json:"data"`
}

type progressResponse struct {
	Progress float64 `json:"progress"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var body []byte
	err := sess.Do(func(sess *session.Session) error {
		var err error
		body, err = s.renderPage(r, sess, nil)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePage(w, http.StatusOK, body)
}

func (s *Server) handleSelectType(w http.ResponseWriter, r *http.Request) {
	name := r.PostForm.Get("form_type")
	s.mutate(w, r, func(sess *session.Session) error {
		return sess.Form.SelectType(name)
	})
}

// handleField answers the runtime script with the recomputed progress.
func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostForm.Get("name"))
	value := r.PostForm.Get("value")

	var progress float64
	err := sessionFrom(r.Context()).Do(func(sess *session.Session) error {
		var err error
		progress, err = sess.Form.SetFieldValue(name, value)
		return err
	})
	if err != nil {
		code := statusCode(err)
		s.logFailure(r, code, err)
		writeJSON(w, code, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{Progress: progress})
}

// handleSubmit applies the posted values and appends a record. Missing
// required fields re-render the page with inline errors instead of
// redirecting.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var page []byte
	err := sess.Do(func(sess *session.Session) error {
		schema, ok := sess.Form.Schema()
		if !ok {
			return form.ErrNoFormSelected
		}
		if _, err := sess.Form.SetValues(postedValues(r, schema.FieldNames())); err != nil {
			return err
		}
		record, err := sess.Form.Submit()
		var invalid *form.ValidationError
		if errors.As(err, &invalid) {
			page, err = s.renderPage(r, sess, invalid)
			return err
		}
		if err != nil {
			return err
		}
		sess.Desk.Submit(record)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if page != nil {
		s.writePage(w, http.StatusUnprocessableEntity, page)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(sess *session.Session) error {
		if id == "" {
			return StatusError{Code: http.StatusBadRequest, Err: errMissingRecordID}
		}
		_, err := sess.Desk.BeginEdit(id)
		return err
	})
}

// handleSave copies posted cells into the draft and commits it. Only keys
// the record already has are accepted, so the record keeps its shape.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(sess *session.Session) error {
		if _, err := sess.Desk.Record(id); err != nil {
			return err
		}
		editing, open := sess.Desk.Editing()
		if !open || editing.RecordID != id {
			return StatusError{Code: http.StatusConflict, Err: errEditMismatch}
		}
		for key := range editing.Draft {
			if values, ok := r.PostForm[key]; ok && len(values) > 0 {
				if err := sess.Desk.UpdateDraft(key, values[0]); err != nil {
					return err
				}
			}
		}
		_, err := sess.Desk.CommitEdit()
		return err
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) error {
		sess.Desk.CancelEdit()
		return nil
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(sess *session.Session) error {
		_, err := sess.Desk.Delete(id)
		return err
	})
}

func (s *Server) handleAPIForms(w http.ResponseWriter, _ *http.Request) {
	schemas := s.catalog.Schemas()
	if schemas == nil {
		schemas = []model.FormSchema{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: schemas})
}

func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	var rows []model.Record
	_ = sessionFrom(r.Context()).Do(func(sess *session.Session) error {
		rows = sess.Desk.Records()
		return nil
	})
	if rows == nil {
		rows = []model.Record{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: rows})
}

// mutate runs fn under the session lock and answers with a redirect to the
// page (post/redirect/get).
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	if err := sessionFrom(r.Context()).Do(fn); err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) renderPage(r *http.Request, sess *session.Session, invalid *form.ValidationError) ([]byte, error) {
	view := render.BuildView(s.catalog, sess.Form, sess.Desk)
	opts := render.RenderOptions{
		BasePath:     s.basePath,
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("", sess.CSRFToken)),
		Theme:        s.theme,
	}
	if invalid != nil {
		mapping := render.ErrorMapping{Fields: invalid.FieldErrors("")}
		if schema, ok := sess.Form.Schema(); ok {
			mapping = render.MapErrorPayload(schema, mapping.Fields)
		}
		opts.Errors = mapping.Fields
		opts.FormErrors = render.MergeFormErrors(mapping.Form, requiredFieldsMessage)
	}
	return s.renderer.Render(r.Context(), view, opts)
}

func (s *Server) writePage(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.path("/"), http.StatusSeeOther)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	s.logFailure(r, code, err)
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) logFailure(r *http.Request, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
		return
	}
	s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
}

func (s *Server) observeEvent(event desk.Event) {
	s.metrics.ObserveEvent(event)
	s.logger.Info("desk event",
		"kind", event.Kind,
		"record", event.Record.ID,
		"form_type", event.Record.FormType,
	)
}

// postedValues picks the schema's fields out of the parsed form. Fields the
// browser did not send are left out so they keep their current value.
func postedValues(r *http.Request, names []string) map[string]string {
	values := make(map[string]string, len(names))
	for _, name := range names {
		if posted, ok := r.PostForm[name]; ok && len(posted) > 0 {
			values[name] = posted[0]
		}
	}
	return values
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}
