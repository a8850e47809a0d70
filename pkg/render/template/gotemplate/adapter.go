// Package gotemplate runs the renderer's built-in documents through a pongo2
// template set.
package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-jsoneditor/pkg/render/template"
)

const (
	defaultSetName   = "jsoneditor"
	defaultExtension = ".tpl"
)

// ErrNoTemplates is returned by New without a template filesystem.
var ErrNoTemplates = errors.New("gotemplate: template filesystem is required")

// Option configures an Engine.
type Option func(*Engine)

// WithExtension changes the suffix appended to template names.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithSetName names the pongo2 template set, which shows up in parse errors.
func WithSetName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.name = name
		}
	}
}

// Engine renders templates loaded from an fs.FS. pongo2 caches parsed files.
type Engine struct {
	name string
	ext  string
	set  *pongo2.TemplateSet
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over files.
func New(files fs.FS, opts ...Option) (*Engine, error) {
	if files == nil {
		return nil, ErrNoTemplates
	}
	e := &Engine{name: defaultSetName, ext: defaultExtension}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.set = pongo2.NewSet(e.name, pongo2.NewFSLoader(files))
	registerFilters()
	return e, nil
}

// RenderTemplate executes name, appending the extension when it is missing.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.set.FromCache(path)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", path, err)
	}
	return out, nil
}

// RenderString parses and executes content.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse: %w", err)
	}
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}
	return out, nil
}

var filtersOnce sync.Once

// pongo2 filters are process wide.
func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("script_json") {
			_ = pongo2.RegisterFilter("script_json", filterScriptJSON)
		}
	})
}

// filterScriptJSON embeds the input as script-safe JSON. The result is marked
// safe so autoescaping leaves the quotes alone.
func filterScriptJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	encoded, err := template.ScriptJSON(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:script_json", OrigError: err}
	}
	return pongo2.AsSafeValue(encoded), nil
}
