package ui

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/logx"
)

// HandleIndex renders the form for the caller's session.
func (s *Store) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.render(w, r, http.StatusOK, sess.snapshot())
}

// HandleGenerate reads the three fields from a form post and starts a
// generation. The browser is sent back to the page, which polls while the
// request is in flight.
func (s *Store) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := form.Inputs{
		TechStack: r.PostForm.Get("techStack"),
		DBSchema:  r.PostForm.Get("dbSchema"),
		APIDesc:   r.PostForm.Get("apiDesc"),
	}

	if err := s.submit(r.Context(), sess, in); err != nil {
		s.render(w, r, submitStatus(err), sess.snapshot())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleState returns the session's form state as JSON.
func (s *Store) HandleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, sess.snapshot())
}

// HandleAPIGenerate is the JSON counterpart of HandleGenerate.
func (s *Store) HandleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var in form.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if err := s.submit(r.Context(), sess, in); err != nil {
		writeJSON(w, submitStatus(err), errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, sess.snapshot())
}

type errorBody struct {
	Error string `json:"error"`
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, form.ErrIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, form.ErrInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Store) render(w http.ResponseWriter, r *http.Request, status int, snap form.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tpl.ExecuteTemplate(w, "index.html", snap); err != nil {
		logx.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
