package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/session"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}

// withSession resolves the cookie to a session, creating one (and a fresh
// cookie) when the cookie is missing or its session expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			id = cookie.Value
		}
		sess, created := s.store.GetOrCreate(id)
		if created {
			sess.Desk.OnEvent(s.observeEvent)
			http.SetCookie(w, s.sessionCookie(sess.ID))
			s.logger.Debug("session created", "active", s.store.Len())
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	path := s.basePath
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     path,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// checkCSRF rejects posts whose _csrf value (or X-CSRF-Token header) does
// not match the session token.
func (s *Server) checkCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		if err := r.ParseForm(); err != nil {
			s.fail(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		token := r.PostForm.Get(render.CSRFFieldName)
		if token == "" {
			token = r.Header.Get(CSRFHeader)
		}
		if sess == nil || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			s.fail(w, r, StatusError{Code: http.StatusForbidden, Err: errCSRF})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
