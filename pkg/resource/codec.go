package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("document is empty")

// MarshalPretty serialises v as JSON indented with two spaces. HTML
// characters are kept literal so saved files read naturally.
func MarshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("resource: encode json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses raw into a generic value. name is used only to pick the
// format.
func Decode(name string, raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errEmptyDocument
	}
	if isYAML(name) {
		return decodeYAML(raw)
	}
	return decodeJSON(raw)
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected trailing content after JSON value")
	}
	return out, nil
}

func decodeYAML(raw []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errEmptyDocument
	}
	return normalizeYAML(out), nil
}

// normalizeYAML converts yaml.v3 maps with non-string keys into
// map[string]any so the value can be re-encoded as JSON.
func normalizeYAML(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		for k, item := range typed {
			typed[k] = normalizeYAML(item)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range typed {
			typed[i] = normalizeYAML(item)
		}
		return typed
	default:
		return v
	}
}

func isYAML(name string) bool {
	trimmed := name
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	switch strings.ToLower(filepath.Ext(trimmed)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
