// Package playground exposes an editing session over HTTP.
package playground

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/livepad/internal/fragment"
	"github.com/ziadkadry99/livepad/internal/preview"
	"github.com/ziadkadry99/livepad/internal/progress"
	"github.com/ziadkadry99/livepad/internal/session"
	"github.com/ziadkadry99/livepad/internal/site"
)

// maxBody bounds request bodies carrying fragment text.
const maxBody = 4 << 20

// Deps holds what the routes need.
type Deps struct {
	Session    *session.Session
	Hub        *preview.Hub
	Detached   *preview.Detached
	Source     *site.SourceRenderer
	Index      *site.IndexPage
	ExportName string
}

// SessionView is the JSON shape of GET /api/session.
type SessionView struct {
	Fragments   fragment.Sources     `json:"fragments"`
	Preferences fragment.Preferences `json:"preferences"`
}

// RegisterRoutes mounts the playground endpoints on the given router.
func RegisterRoutes(r chi.Router, d Deps) {
	r.Get("/", indexHandler(d))
	r.Get("/preview", previewHandler(d.Session))
	r.Get("/preview/detached/{id}", detachedHandler(d.Detached))
	r.Get("/source", sourceHandler(d))
	r.Get("/ws", d.Hub.ServeWS(d.Session))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/api/session", getSessionHandler(d.Session))
		r.Put("/api/fragments/{name}", putFragmentHandler(d.Session))
		r.Delete("/api/fragments/{name}", deleteFragmentHandler(d.Session))
		r.Post("/api/fragments/{name}/copy", copyFragmentHandler(d.Session))
		r.Post("/api/preferences/theme/toggle", toggleThemeHandler(d.Session))
		r.Put("/api/preferences/{name}", putPreferenceHandler(d.Session))
		r.Post("/api/clear", clearHandler(d.Session))
		r.Get("/api/export", exportHandler(d.Session, d.ExportName))
		r.Post("/api/preview/detach", detachHandler(d.Session, d.Detached))
	})
}

func indexHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, prefs := d.Session.Snapshot()
		var buf bytes.Buffer
		if err := d.Index.Render(&buf, src, prefs); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeHTML(w, buf.Bytes())
	}
}

func previewHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, []byte(sess.Preview()))
	}
}

func detachedHandler(detached *preview.Detached) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := detached.Take(chi.URLParam(r, "id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeHTML(w, []byte(doc))
	}
}

func sourceHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, prefs := d.Session.Snapshot()
		var buf bytes.Buffer
		if err := d.Source.Render(&buf, src, prefs.Theme); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeHTML(w, buf.Bytes())
	}
}

func getSessionHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, prefs := sess.Snapshot()
		writeJSON(w, http.StatusOK, SessionView{Fragments: src, Preferences: prefs})
	}
}

func putFragmentHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := fragmentParam(w, r)
		if !ok {
			return
		}
		var body struct {
			Text *string `json:"text"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Text == nil {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		if err := sess.OnEdit(r.Context(), f, *body.Text); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"fragment": f, "bytes": len(*body.Text)})
	}
}

func deleteFragmentHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := fragmentParam(w, r)
		if !ok {
			return
		}
		if err := sess.DeleteFragment(r.Context(), f); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"fragment": f, "deleted": true})
	}
}

func copyFragmentHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := fragmentParam(w, r)
		if !ok {
			return
		}
		if err := sess.Copy(r.Context(), f); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]interface{}{"fragment": f, "status": "copying"})
	}
}

func putPreferenceHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		var body struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := sess.OnPreferenceChange(r.Context(), name, body.Value); err != nil {
			writeSessionError(w, err)
			return
		}
		_, prefs := sess.Snapshot()
		writeJSON(w, http.StatusOK, prefs)
	}
}

func toggleThemeHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := sess.ToggleTheme(r.Context())
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
	}
}

func clearHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sess.ClearAll(r.Context()); err != nil {
			writeSessionError(w, err)
			return
		}
		src, prefs := sess.Snapshot()
		writeJSON(w, http.StatusOK, SessionView{Fragments: src, Preferences: prefs})
	}
}

func exportHandler(sess *session.Session, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if _, err := sess.Export(r.Context(), &buf, progress.Nop{}); err != nil {
			writeSessionError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func detachHandler(sess *session.Session, detached *preview.Detached) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := sess.Detach(r.Context())
		if err != nil {
			writeSessionError(w, err)
			return
		}
		id := detached.Put(doc)
		writeJSON(w, http.StatusCreated, map[string]string{"url": "/preview/detached/" + id})
	}
}

func fragmentParam(w http.ResponseWriter, r *http.Request) (fragment.Fragment, bool) {
	f, err := fragment.Parse(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return 0, false
	}
	return f, true
}

// writeSessionError maps session errors to status codes.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fragment.ErrEmptyInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fragment.ErrUnknownFragment), errors.Is(err, fragment.ErrInvalidPreference):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
