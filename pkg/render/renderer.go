package render

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-jsoneditor/pkg/render/template"
	"github.com/goliatone/go-jsoneditor/pkg/render/template/gotemplate"
)

const (
	defaultTitle   = "JSON Editor"
	loadingMessage = "Loading JSON editor..."
)

// Renderer builds editor documents from the form template and the built-in
// loading, error and data block templates.
type Renderer struct {
	engine       template.TemplateRenderer
	workDir      string
	fallback     fs.FS
	fallbackName string
	theme        Theme
	stat         func(string) (fs.FileInfo, error)
	logger       *slog.Logger

	selector        theme.ThemeSelector
	selectorName    string
	selectorVariant string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine replaces the template engine used for the built-in templates.
// The engine must be able to resolve loading, error and datablock.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) { r.engine = engine }
}

// WithWorkingDir overrides the directory used for the working directory
// candidates. Defaults to os.Getwd.
func WithWorkingDir(dir string) Option {
	return func(r *Renderer) { r.workDir = dir }
}

// WithFallbackTemplate is consulted after every on-disk candidate misses.
func WithFallbackTemplate(files fs.FS, name string) Option {
	return func(r *Renderer) {
		r.fallback = files
		r.fallbackName = name
		if r.fallbackName == "" {
			r.fallbackName = TemplateName
		}
	}
}

// WithTheme applies a resolved go-theme selection.
func WithTheme(sel *theme.Selection) Option {
	return func(r *Renderer) { r.theme = ThemeFromSelection(sel) }
}

// WithThemeSelector resolves name and variant through selector when the
// renderer is constructed.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.selector = selector
		r.selectorName = name
		r.selectorVariant = variant
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a Renderer.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		stat:   os.Stat,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = r.logger.With("component", "render")

	if r.selector != nil {
		sel, err := r.selector.Select(r.selectorName, r.selectorVariant)
		if err != nil {
			return nil, fmt.Errorf("render: select theme %q/%q: %w", r.selectorName, r.selectorVariant, err)
		}
		r.theme = ThemeFromSelection(sel)
	}

	if r.engine == nil {
		engine, err := gotemplate.New(Templates())
		if err != nil {
			return nil, fmt.Errorf("render: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render locates the form template and injects the data block for in.
// ErrTemplateNotFound is returned when no template exists.
func (r *Renderer) Render(ctx context.Context, in Input) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := r.locate(in.Root)
	if err != nil {
		r.logger.ErrorContext(ctx, "form template not found", "root", in.Root, "error", err)
		return "", err
	}

	block, err := r.DataBlock(in)
	if err != nil {
		return "", err
	}
	r.logger.DebugContext(ctx, "form rendered", "template", src.origin, "bytes", len(src.body))
	return InjectDataBlock(src.body, block), nil
}

// DataBlock renders the script element exposing currentSchema,
// customOptions, initialData, definitions and conditionalRules.
func (r *Renderer) DataBlock(in Input) (string, error) {
	in = in.normalized()
	values := map[string]any{
		"schema":           in.Schema,
		"choices":          in.Choices,
		"data":             in.Data,
		"definitions":      Definitions(in.Schema),
		"conditionalRules": ConditionalRules(in.Choices),
	}

	ctx := map[string]any{"themeStyle": r.theme.Style()}
	for key, value := range values {
		encoded, err := EmbedData(value)
		if err != nil {
			return "", fmt.Errorf("render: embed %s: %w", key, err)
		}
		ctx[key] = encoded
	}

	block, err := r.engine.RenderTemplate("datablock", ctx)
	if err != nil {
		return "", fmt.Errorf("render: data block: %w", err)
	}
	return block, nil
}

// RenderLoading returns the placeholder shown while documents load.
func (r *Renderer) RenderLoading() string {
	doc, err := r.engine.RenderTemplate("loading", map[string]any{
		"title":      defaultTitle,
		"message":    loadingMessage,
		"themeStyle": r.theme.Style(),
	})
	if err != nil {
		r.logger.Error("render loading document", "error", err)
		return "<!DOCTYPE html><html><body><p>" + loadingMessage + "</p></body></html>"
	}
	return doc
}

// RenderError returns a document describing message. The message is HTML
// escaped in markup and script-escaped inside the script body.
func (r *Renderer) RenderError(message string) string {
	doc, err := r.engine.RenderTemplate("error", map[string]any{
		"title":      defaultTitle,
		"message":    message,
		"themeStyle": r.theme.Style(),
	})
	if err != nil {
		r.logger.Error("render error document", "error", err)
		return "<!DOCTYPE html><html><body><h2>Error Loading JSON Data Editor</h2><p>" +
			html.EscapeString(message) + "</p></body></html>"
	}
	return doc
}
