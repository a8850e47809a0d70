package panel

import (
	"context"

	"github.com/goliatone/go-jsoneditor/pkg/dispatch"
	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

// Command bus names used to re-enter the application from the surface.
const (
	BusOpenEditor = "jsonEditor.openEditor"
	BusOpenConfig = "jsonEditor.openConfig"
	BusReloadForm = "jsonEditor.reloadForm"
)

// SurfaceOptions describes the surface a Host should create.
type SurfaceOptions struct {
	ViewType string
	Title    string
	Root     string
}

// Host creates UI surfaces.
type Host interface {
	CreateSurface(ctx context.Context, opts SurfaceOptions) (Surface, error)
}

// Surface is one host-provided UI container. Subscription methods return a
// function that removes the subscription.
type Surface interface {
	dispatch.Target

	SetContent(ctx context.Context, document string) error
	SetTitle(ctx context.Context, title string) error
	Reveal(ctx context.Context) error
	Dispose() error

	OnMessage(fn func(ctx context.Context, raw []byte)) func()
	OnVisibilityChange(fn func(ctx context.Context, visible bool)) func()
	OnDispose(fn func()) func()
}

// ResourceLoader reads editor documents and moves data in and out of the
// host. *resource.Service satisfies it.
type ResourceLoader interface {
	Load(ctx context.Context, kind resource.Kind, path string) (any, error)
	LoadOptional(ctx context.Context, kind resource.Kind, path string) resource.Outcome
	LoadViaPicker(ctx context.Context, label string) (any, bool, error)
	Persist(ctx context.Context, v any) (string, bool, error)
	ExportToClipboard(ctx context.Context, v any) error
}

// ContentRenderer builds surface documents. *render.Renderer satisfies it.
type ContentRenderer interface {
	Render(ctx context.Context, in render.Input) (string, error)
	RenderError(message string) string
	RenderLoading() string
}

// Notifier surfaces messages to the user on a best-effort basis.
type Notifier interface {
	Info(ctx context.Context, msg string)
	Warn(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// CommandBus invokes application commands by name.
type CommandBus interface {
	Execute(ctx context.Context, name string) error
}

var (
	_ ResourceLoader  = (*resource.Service)(nil)
	_ ContentRenderer = (*render.Renderer)(nil)
)
