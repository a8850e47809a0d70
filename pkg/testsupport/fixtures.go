package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// WriteFixtures writes each entry of files (relative name to contents) under
// dir and returns the absolute paths keyed by the same names.
func WriteFixtures(t *testing.T, dir string, files map[string]string) map[string]string {
	t.Helper()

	out := make(map[string]string, len(files))
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
		out[name] = path
	}
	return out
}

// WriteJSONFixture marshals value into dir/name and returns the path.
func WriteJSONFixture(t *testing.T, dir, name string, value any) string {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return WriteFixtures(t, dir, map[string]string{name: string(payload)})[name]
}

// DecodeJSON parses data into a generic value, keeping numbers as json.Number
// the way the resource loader does.
func DecodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("testsupport: empty JSON payload")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("testsupport: decode json: %w", err)
	}
	return out, nil
}

// MustDecodeJSON is DecodeJSON for tests.
func MustDecodeJSON(t *testing.T, data []byte) any {
	t.Helper()

	out, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return out
}

// CompareJSON returns a diff between two JSON payloads after decoding, or ""
// when they are structurally equal.
func CompareJSON(t *testing.T, want, got []byte) string {
	t.Helper()
	return cmp.Diff(MustDecodeJSON(t, want), MustDecodeJSON(t, got))
}
