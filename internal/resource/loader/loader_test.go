package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-jsoneditor/pkg/source"
)

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(path, []byte(`{"type":"object"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	data, err := New(Options{}).Load(context.Background(), source.FromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"type":"object"}` {
		t.Fatalf("unexpected data %q", data)
	}

	_, err = New(Options{}).Load(context.Background(), source.FromFile(filepath.Join(dir, "missing.json")))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoader_FileSourcesReadFromConfiguredFS(t *testing.T) {
	files := fstest.MapFS{"fixtures/data.json": {Data: []byte(`[]`)}}
	l := New(Options{FileSystem: files})

	data, err := l.Load(context.Background(), source.FromFile("fixtures/data.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("unexpected data %q", data)
	}

	data, err = l.Load(context.Background(), source.FromFS("fixtures/data.json"))
	if err != nil || string(data) != "[]" {
		t.Fatalf("fs load = %q, %v", data, err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schema.json":
			_, _ = w.Write([]byte(`{"title":"Remote"}`))
		case "/secret.json":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(Options{HTTPClient: srv.Client()})

	src, _ := source.FromURL(srv.URL + "/schema.json")
	data, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"title":"Remote"}` {
		t.Fatalf("unexpected body %q", data)
	}

	missing, _ := source.FromURL(srv.URL + "/missing.json")
	if _, err := l.Load(context.Background(), missing); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected 404 to map to fs.ErrNotExist, got %v", err)
	}

	secret, _ := source.FromURL(srv.URL + "/secret.json")
	if _, err := l.Load(context.Background(), secret); !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected 403 to map to fs.ErrPermission, got %v", err)
	}
}

func TestLoader_HTTPDisabled(t *testing.T) {
	src, _ := source.FromURL("https://example.com/schema.json")
	if _, err := New(Options{}).Load(context.Background(), src); err == nil {
		t.Fatalf("expected error when http is disabled")
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Load(ctx, source.FromFile("anything.json"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_LocalSourceErrors(t *testing.T) {
	l := New(Options{})
	if _, err := l.Load(context.Background(), source.FromFS("data.json")); !errors.Is(err, errNoFS) {
		t.Fatalf("expected errNoFS without a filesystem, got %v", err)
	}
	if _, err := loadFile(context.Background(), ""); !errors.Is(err, errEmptyPath) {
		t.Fatalf("expected errEmptyPath, got %v", err)
	}
	if _, err := loadFromFS(context.Background(), fstest.MapFS{}, ""); !errors.Is(err, errEmptyPath) {
		t.Fatalf("expected errEmptyPath for fs, got %v", err)
	}
}
