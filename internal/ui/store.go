// Package ui serves the code-generation form over HTTP. Every browser gets a
// session holding its own form state.
package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/generator"
	"github.com/ccastromar/backend-code-generator/internal/logx"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionCookie = "codegen_session"

type session struct {
	mu    sync.Mutex
	state form.State
}

func (s *session) snapshot() form.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

type Store struct {
	base     context.Context
	gen      generator.Generator
	sessions *cache.Cache
	tpl      *template.Template
	inflight sync.WaitGroup
}

// NewStore builds the session store. Generations started from a request run
// on base, so they outlive the request that started them.
func NewStore(base context.Context, gen generator.Generator, ttl time.Duration) (*Store, error) {
	tpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Store{
		base:     base,
		gen:      gen,
		sessions: cache.New(ttl, 2*ttl),
		tpl:      tpl,
	}, nil
}

// Wait blocks until every generation started by the store has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Sessions returns the number of live sessions.
func (s *Store) Sessions() int {
	return s.sessions.ItemCount()
}

// session returns the caller's session, creating one (and its cookie) when
// the cookie is missing or the session expired. Access refreshes the TTL.
func (s *Store) session(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if v, ok := s.sessions.Get(c.Value); ok {
			sess := v.(*session)
			s.sessions.SetDefault(c.Value, sess)
			return sess
		}
	}

	id := uuid.NewString()
	sess := &session{}
	s.sessions.SetDefault(id, sess)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logx.FromContext(r.Context()).Debug("session created", zap.String("session_id", id))
	return sess
}

// submit stores in on the session and, when the form may be submitted,
// starts the generation in the background.
func (s *Store) submit(ctx context.Context, sess *session, in form.Inputs) error {
	sess.mu.Lock()
	sess.state.SetInputs(in)
	req, err := sess.state.Begin()
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	wctx := logx.ToContext(s.base, logx.FromContext(ctx))
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		out, err := s.gen.Generate(wctx, req)

		sess.mu.Lock()
		defer sess.mu.Unlock()
		if aerr := generator.Apply(&sess.state, out, err); aerr != nil {
			logx.FromContext(wctx).Warn("dropping generation result", zap.Error(aerr))
		}
	}()
	return nil
}
