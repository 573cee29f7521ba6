package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ccastromar/backend-code-generator/internal/form"
	"github.com/ccastromar/backend-code-generator/internal/generator"
)

type fakeGen struct {
	mu    sync.Mutex
	out   string
	err   error
	gate  chan struct{}
	calls []form.Inputs
}

func (f *fakeGen) Generate(ctx context.Context, in form.Inputs) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	return f.out, f.err
}

func (f *fakeGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestStore(t *testing.T, gen generator.Generator) (*Store, http.Handler) {
	t.Helper()
	s, err := NewStore(context.Background(), gen, time.Minute)
	require.NoError(t, err)
	r := chi.NewRouter()
	RegisterRoutes(r, s)
	return s, r
}

// do sends req with the session cookie (if any) and returns the recorder
// plus the cookie to use from then on.
func do(h http.Handler, req *http.Request, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	return rr, cookie
}

func postForm(in form.Inputs) *http.Request {
	vals := url.Values{}
	vals.Set("techStack", in.TechStack)
	vals.Set("dbSchema", in.DBSchema)
	vals.Set("apiDesc", in.APIDesc)
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func getState(t *testing.T, h http.Handler, cookie *http.Cookie) form.Snapshot {
	t.Helper()
	rr, _ := do(h, httptest.NewRequest(http.MethodGet, "/api/state", nil), cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap form.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	return snap
}

var complete = form.Inputs{TechStack: "Go, chi", DBSchema: "users(id)", APIDesc: "GET /users"}

func TestIndex_NewSessionIsIdle(t *testing.T) {
	_, h := newTestStore(t, &fakeGen{})

	rr, cookie := do(h, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, cookie)

	body := rr.Body.String()
	require.Contains(t, body, "Status: Ready")
	require.Contains(t, body, "Your generated code will appear here")
	require.Contains(t, body, `id="submit" disabled`)
	require.NotContains(t, body, `http-equiv="refresh"`)
}

func TestGenerate_IncompleteIsRejected(t *testing.T) {
	gen := &fakeGen{out: "X"}
	s, h := newTestStore(t, gen)

	rr, cookie := do(h, postForm(form.Inputs{TechStack: "Go", DBSchema: "users(id)"}), nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Go</textarea>")

	s.Wait()
	require.Zero(t, gen.callCount())
	require.Equal(t, "idle", getState(t, h, cookie).Status)
}

func TestGenerate_SuccessRendersOutput(t *testing.T) {
	gen := &fakeGen{out: "File: src/index.ts\n<b>code</b>"}
	s, h := newTestStore(t, gen)

	rr, cookie := do(h, postForm(complete), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))

	s.Wait()
	rr, _ = do(h, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	body := rr.Body.String()
	require.Contains(t, body, "File: src/index.ts\n&lt;b&gt;code&lt;/b&gt;")
	require.Contains(t, body, "Status: Code generated")
	require.Contains(t, body, "Generate Backend Code</button>")

	snap := getState(t, h, cookie)
	require.Equal(t, "success", snap.Status)
	require.False(t, snap.Loading)
	require.Equal(t, complete, snap.Inputs)
	require.Equal(t, []form.Inputs{complete}, gen.calls)
}

func TestGenerate_FailureShowsFixedMessage(t *testing.T) {
	gen := &fakeGen{err: &generator.GenerationError{Cause: errors.New("connection refused")}}
	s, h := newTestStore(t, gen)

	_, cookie := do(h, postForm(complete), nil)
	s.Wait()

	rr, _ := do(h, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	body := rr.Body.String()
	require.Contains(t, body, "Error: "+generator.FailureMessage)
	require.NotContains(t, body, "connection refused")
	require.Contains(t, body, "Status: Ready")

	snap := getState(t, h, cookie)
	require.Equal(t, "failed", snap.Status)
	require.Empty(t, snap.Output)
	require.True(t, snap.CanSubmit)
}

func TestGenerate_SecondSubmitWhileLoadingConflicts(t *testing.T) {
	gen := &fakeGen{out: "X", gate: make(chan struct{})}
	s, h := newTestStore(t, gen)

	rr, cookie := do(h, postForm(complete), nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	snap := getState(t, h, cookie)
	require.True(t, snap.Loading)
	require.False(t, snap.CanSubmit)

	rr, _ = do(h, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Contains(t, rr.Body.String(), `http-equiv="refresh"`)
	require.Contains(t, rr.Body.String(), "Generating Code...")

	rr, _ = do(h, postForm(complete), cookie)
	require.Equal(t, http.StatusConflict, rr.Code)

	close(gen.gate)
	s.Wait()
	require.Equal(t, 1, gen.callCount())
	require.Equal(t, "X", getState(t, h, cookie).Output)
}

func TestGenerate_ResubmitAfterFailure(t *testing.T) {
	gen := &fakeGen{err: errors.New("down")}
	s, h := newTestStore(t, gen)

	_, cookie := do(h, postForm(complete), nil)
	s.Wait()
	require.Equal(t, "failed", getState(t, h, cookie).Status)

	gen.mu.Lock()
	gen.err, gen.out = nil, "X"
	gen.mu.Unlock()

	rr, _ := do(h, postForm(complete), cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	s.Wait()

	snap := getState(t, h, cookie)
	require.Equal(t, "success", snap.Status)
	require.Empty(t, snap.Error)
	require.Equal(t, 2, gen.callCount())
	require.Equal(t, gen.calls[0], gen.calls[1])
}

func TestSessionsAreIsolated(t *testing.T) {
	gen := &fakeGen{out: "X"}
	s, h := newTestStore(t, gen)

	_, alice := do(h, postForm(complete), nil)
	_, bob := do(h, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	s.Wait()

	require.NotEqual(t, alice.Value, bob.Value)
	require.Equal(t, "success", getState(t, h, alice).Status)
	require.Equal(t, "idle", getState(t, h, bob).Status)
	require.Equal(t, 2, s.Sessions())
}

func TestAPIGenerate(t *testing.T) {
	gen := &fakeGen{out: "X"}
	s, h := newTestStore(t, gen)

	body, err := json.Marshal(complete)
	require.NoError(t, err)
	rr, cookie := do(h, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(string(body))), nil)
	require.Equal(t, http.StatusAccepted, rr.Code)

	var snap form.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	require.Equal(t, complete, snap.Inputs)

	s.Wait()
	require.Equal(t, "X", getState(t, h, cookie).Output)
}

func TestAPIGenerate_BadRequests(t *testing.T) {
	_, h := newTestStore(t, &fakeGen{})

	rr, _ := do(h, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{")), nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(h, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"techStack":"Go"}`)), nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.JSONEq(t, `{"error":"all three fields are required"}`, rr.Body.String())
}

func TestUnknownCookieStartsNewSession(t *testing.T) {
	_, h := newTestStore(t, &fakeGen{})

	stale := &http.Cookie{Name: sessionCookie, Value: "expired"}
	_, cookie := do(h, httptest.NewRequest(http.MethodGet, "/", nil), stale)
	require.NotEqual(t, "expired", cookie.Value)
}
