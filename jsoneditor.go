package jsoneditor

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-jsoneditor/pkg/app"
	"github.com/goliatone/go-jsoneditor/pkg/configstore"
	"github.com/goliatone/go-jsoneditor/pkg/editor"
	"github.com/goliatone/go-jsoneditor/pkg/panel"
	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

//go:embed media/form.html
var embeddedMedia embed.FS

// Config aliases editor.Config so callers can describe a session without
// importing the editor package.
type Config = editor.Config

// DefaultTemplate exposes the bundled form template (form.html at the FS
// root). The renderer falls back to it when no template exists on disk.
func DefaultTemplate() fs.FS {
	sub, err := fs.Sub(embeddedMedia, "media")
	if err != nil {
		return embeddedMedia
	}
	return sub
}

// WithDefaultTemplate configures a renderer to use the bundled template as
// its last resort.
func WithDefaultTemplate() render.Option {
	return render.WithFallbackTemplate(DefaultTemplate(), render.TemplateName)
}

// NewRenderer builds a renderer that always has a template to serve.
func NewRenderer(options ...render.Option) (*render.Renderer, error) {
	return render.New(append([]render.Option{WithDefaultTemplate()}, options...)...)
}

// NewController exposes the panel controller constructor from the module
// root.
func NewController(host panel.Host, options ...panel.Option) (*panel.Controller, error) {
	return panel.New(host, options...)
}

// NewResources exposes the resource service constructor.
func NewResources(options ...resource.Option) *resource.Service {
	return resource.NewService(options...)
}

// NewApp wires ctrl to store and returns the command bus driving it.
func NewApp(ctrl *panel.Controller, store configstore.Store, options ...app.Option) (*app.App, error) {
	return app.New(ctrl, store, options...)
}
