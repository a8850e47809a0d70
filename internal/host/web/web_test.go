package web

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsoneditor/pkg/panel"
)

const page = "<!DOCTYPE html><html><head><title>t</title></head><body></body></html>"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSurfaceForTest(t *testing.T, h *Host) *Surface {
	t.Helper()
	s, err := h.CreateSurface(context.Background(), panel.SurfaceOptions{ViewType: "jsonSchemaEditor", Title: "JSON Data Editor"})
	if err != nil {
		t.Fatalf("create surface: %v", err)
	}
	t.Cleanup(func() { _ = s.Dispose() })
	return s.(*Surface)
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewOptions_Defaults(t *testing.T) {
	opts := NewOptions(WithQueueSize(-1), WithBasePath(""), WithKeepAlive(0), nil)
	if diff := cmp.Diff(DefaultOptions(), opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestMountPath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"editor":   "/editor/",
		"/editor/": "/editor/",
	}
	for base, want := range cases {
		if got := mountPath(base, "/"); got != want {
			t.Fatalf("mountPath(%q) = %q, want %q", base, got, want)
		}
	}
}

func TestPage(t *testing.T) {
	h := New(quietLogger())
	handler := h.Handler()

	if rec := do(t, handler, http.MethodGet, "/", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without surface, got %d", rec.Code)
	}

	s := newSurfaceForTest(t, h)
	if rec := do(t, handler, http.MethodGet, "/", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before content, got %d", rec.Code)
	}
	if err := s.SetContent(context.Background(), page); err != nil {
		t.Fatalf("set content: %v", err)
	}

	rec := do(t, handler, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "window.acquireHostApi") || !strings.Contains(body, `window.__jsonEditorBase = "";`) {
		t.Fatalf("expected bridge script in page:\n%s", body)
	}
	if strings.Index(body, "acquireHostApi") > strings.Index(body, "</head>") {
		t.Fatalf("bridge must be injected in head")
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected no-cache headers")
	}
}

func TestPage_BasePath(t *testing.T) {
	h := New(quietLogger(), WithBasePath("/editor"))
	s := newSurfaceForTest(t, h)
	_ = s.SetContent(context.Background(), page)

	rec := do(t, h.Handler(), http.MethodGet, "/editor/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `window.__jsonEditorBase = "/editor";`) {
		t.Fatalf("expected base path in bridge")
	}
	if rec := do(t, h.Handler(), http.MethodGet, "/editor/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected mounted health route, got %d", rec.Code)
	}
}

func TestMessages_SerialDelivery(t *testing.T) {
	h := New(quietLogger())
	handler := h.Handler()

	if rec := do(t, handler, http.MethodPost, "/api/messages", `{"command":"saveJson"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 without surface, got %d", rec.Code)
	}

	s := newSurfaceForTest(t, h)
	var mu sync.Mutex
	var got []string
	s.OnMessage(func(_ context.Context, raw []byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, string(raw))
	})

	if rec := do(t, handler, http.MethodPost, "/api/messages", `{"command":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}
	want := []string{`{"command":"a"}`, `{"command":"b"}`, `{"command":"c"}`}
	for _, msg := range want {
		if rec := do(t, handler, http.MethodPost, "/api/messages", msg); rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestMessages_QueueFull(t *testing.T) {
	h := New(quietLogger(), WithQueueSize(1))
	s := newSurfaceForTest(t, h)
	release := make(chan struct{})
	s.OnMessage(func(context.Context, []byte) { <-release })
	defer close(release)

	handler := h.Handler()
	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, do(t, handler, http.MethodPost, "/api/messages", `{"command":"x"}`).Code)
	}
	full := false
	for _, code := range codes {
		if code == http.StatusServiceUnavailable {
			full = true
		}
	}
	if !full {
		t.Fatalf("expected a full queue to reject a message, got %v", codes)
	}
}

func TestVisibility(t *testing.T) {
	h := New(quietLogger())
	s := newSurfaceForTest(t, h)
	seen := make(chan bool, 1)
	s.OnVisibilityChange(func(_ context.Context, visible bool) { seen <- visible })

	handler := h.Handler()
	if rec := do(t, handler, http.MethodPost, "/api/visibility", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodPost, "/api/visibility", `{"visible":true}`); rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	select {
	case v := <-seen:
		if !v {
			t.Fatalf("expected visible=true")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("visibility not delivered")
	}
}

func TestClose(t *testing.T) {
	h := New(quietLogger())
	s := newSurfaceForTest(t, h)
	_ = s.SetContent(context.Background(), page)
	disposed := 0
	s.OnDispose(func() { disposed++ })

	handler := h.Handler()
	if rec := do(t, handler, http.MethodPost, "/api/close", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	do(t, handler, http.MethodPost, "/api/close", "")

	if !s.Disposed() || disposed != 1 {
		t.Fatalf("expected a single dispose, got %d", disposed)
	}
	if rec := do(t, handler, http.MethodPost, "/api/messages", `{"command":"x"}`); rec.Code != http.StatusGone {
		t.Fatalf("expected 410 after close, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodGet, "/", ""); rec.Code != http.StatusGone {
		t.Fatalf("expected 410 page after close, got %d", rec.Code)
	}
	if err := s.PostMessage(context.Background(), []byte(`{}`)); err != ErrSurfaceClosed {
		t.Fatalf("expected ErrSurfaceClosed, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	h := New(quietLogger())
	s := newSurfaceForTest(t, h)

	rec := do(t, h.Handler(), http.MethodGet, "/healthz", "")
	var got healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(healthResponse{Status: "ok", Surface: s.ID()}, got); diff != "" {
		t.Fatalf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestEventWriteTo(t *testing.T) {
	var b strings.Builder
	if _, err := (Event{Name: "message", Data: []byte("a\nb")}).WriteTo(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	if b.String() != "event: message\ndata: a\ndata: b\n\n" {
		t.Fatalf("unexpected framing %q", b.String())
	}
}

func TestEventStream(t *testing.T) {
	h := New(quietLogger())
	s := newSurfaceForTest(t, h)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	next := func() (string, string) {
		t.Helper()
		var name, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				return name, data
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return "", ""
	}

	if name, _ := next(); name != EventReady {
		t.Fatalf("expected ready event, got %q", name)
	}

	if err := s.PostMessage(ctx, []byte(`{"command":"dataLoaded","data":{"a":1}}`)); err != nil {
		t.Fatalf("post: %v", err)
	}
	if name, data := next(); name != EventMessage || data != `{"command":"dataLoaded","data":{"a":1}}` {
		t.Fatalf("unexpected event %q %q", name, data)
	}

	h.Warn(ctx, "careful")
	if name, data := next(); name != EventNotification || data != `{"level":"warn","message":"careful"}` {
		t.Fatalf("unexpected event %q %q", name, data)
	}

	_ = s.SetTitle(ctx, "Widget")
	if name, data := next(); name != EventTitle || data != `"Widget"` {
		t.Fatalf("unexpected event %q %q", name, data)
	}
}
