package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type stubRenderer struct {
	mu    sync.Mutex
	calls []string
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
	markup := fmt.Sprintf("<rendered:%s>", name)
	for _, w := range out {
		if _, err := io.WriteString(w, markup); err != nil {
			return "", err
		}
	}
	return markup, nil
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
}

func (t *recordingTelemetry) has(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}

type requestLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	l.entries = append(l.entries, r.Method+" "+r.URL.Path)
	l.mu.Unlock()
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

type testEnv struct {
	app      *App
	panels   *PanelSet
	renderer *stubRenderer
	server   *httptest.Server
	requests *requestLog
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		if handler != nil {
			handler.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	panels := DefaultPanelSet(nil)
	renderer := &stubRenderer{}
	app := NewApp(Options{
		View:     panels,
		Renderer: renderer,
		BaseURL:  server.URL,
		Clock:    func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) },
	})
	return &testEnv{app: app, panels: panels, renderer: renderer, server: server, requests: log}
}

func (e *testEnv) signIn(role Role) {
	e.app.session.mu.Lock()
	e.app.session.user = &User{
		ID:      "u-1",
		Name:    "Test User",
		Email:   "user@example.com",
		Role:    role,
		Address: "1 Test Street",
	}
	e.app.session.token = "test-token"
	e.app.session.mu.Unlock()
}
