package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/dispatch"
	"github.com/goliatone/go-jsoneditor/pkg/editor"
	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

const (
	initFailurePrefix   = "Failed to initialize editor"
	reloadFailurePrefix = "Failed to reload form"
	reloadedNotice      = "Form reloaded with new schema configuration"
)

var optionalWarnings = map[resource.Kind]string{
	resource.KindChoices: "Choices file could not be loaded, using schema defaults",
	resource.KindData:    "Data file could not be loaded, starting with empty data",
}

// Panel is the live editor surface and its load state.
type Panel struct {
	id         string
	ctrl       *Controller
	surface    Surface
	root       string
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	cfg      editor.Config
	loaded   editor.Config
	state    State
	loading  bool
	disposed bool
	lastErr  error
	title    string
	unsubs   []func()
}

func newPanel(c *Controller, id string, surface Surface, root string, cfg editor.Config) *Panel {
	logger := c.logger.With("panel", id)
	p := &Panel{
		id:      id,
		ctrl:    c,
		surface: surface,
		root:    root,
		cfg:     cfg,
		logger:  logger,
		title:   surfaceTitle,
	}
	p.dispatcher = dispatch.New(
		dispatch.WithLogger(logger),
		dispatch.WithFailureReporter(func(ctx context.Context, err *dispatch.HandlerError) {
			c.notifier.Error(ctx, err.Error())
		}),
	)
	return p
}

// bind registers the command handlers and the surface subscriptions.
func (p *Panel) bind() error {
	table := p.handlers()
	for _, cmd := range dispatch.InboundCommands() {
		h, ok := table[cmd]
		if !ok {
			return fmt.Errorf("panel: no handler for inbound command %q", cmd)
		}
		if _, err := p.dispatcher.Register(cmd, h); err != nil {
			return err
		}
	}

	p.unsubs = append(p.unsubs,
		p.surface.OnMessage(func(ctx context.Context, raw []byte) {
			p.dispatcher.Dispatch(ctx, p.surface, raw)
		}),
		p.surface.OnVisibilityChange(p.visibilityChanged),
		p.surface.OnDispose(p.Dispose),
	)
	return nil
}

// ID identifies the panel within its controller.
func (p *Panel) ID() string { return p.id }

// Surface returns the host surface backing the panel.
func (p *Panel) Surface() Surface { return p.surface }

// Dispatcher returns the dispatcher routing the surface's messages.
func (p *Panel) Dispatcher() *dispatch.Dispatcher { return p.dispatcher }

// Config returns the held config. It may not be loaded yet when a reload
// was dropped by the loading guard.
func (p *Panel) Config() editor.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// LoadedConfig returns the config of the last load that ran to completion,
// successfully or not. It is zero before the first load ends.
func (p *Panel) LoadedConfig() editor.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// State returns the lifecycle state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the fatal error of the last load, or nil.
func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Title returns the title last applied to the surface.
func (p *Panel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Reveal brings the surface to the foreground without touching its content.
func (p *Panel) Reveal(ctx context.Context) error {
	if p.isDisposed() {
		return ErrDisposed
	}
	return p.surface.Reveal(ctx)
}

// UpdateWithConfig stores cfg, reloads, and announces the reload. When a load
// is already running the config is kept and ErrLoadInProgress is returned.
func (p *Panel) UpdateWithConfig(ctx context.Context, cfg editor.Config) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	p.cfg = cfg
	p.mu.Unlock()

	if err := p.load(ctx, reloadFailurePrefix); err != nil {
		return err
	}
	p.ctrl.notifier.Info(ctx, reloadedNotice)
	return nil
}

// Reload re-runs load and render with the held config.
func (p *Panel) Reload(ctx context.Context) error {
	return p.load(ctx, reloadFailurePrefix)
}

func (p *Panel) initialize(ctx context.Context) error {
	return p.load(ctx, initFailurePrefix)
}

// load runs one load and render cycle. The loading flag is checked and set
// under the mutex and released once the cycle ends.
func (p *Panel) load(ctx context.Context, failurePrefix string) error {
	p.mu.Lock()
	switch {
	case p.disposed:
		p.mu.Unlock()
		return ErrDisposed
	case p.loading:
		p.mu.Unlock()
		p.logger.DebugContext(ctx, "load already in progress, ignoring trigger")
		return ErrLoadInProgress
	}
	p.loading = true
	p.state = StateLoading
	cfg := p.cfg
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	p.install(ctx, p.ctrl.renderer.RenderLoading())

	schema, err := p.ctrl.resources.Load(ctx, resource.KindSchema, cfg.SchemaPath)
	if err != nil {
		return p.fail(ctx, cfg, failurePrefix, &FatalLoadError{Stage: "load schema", Err: err})
	}
	choices := p.loadOptional(ctx, resource.KindChoices, cfg.ChoicesPath)
	data := p.loadOptional(ctx, resource.KindData, cfg.DataPath)

	doc, err := p.ctrl.renderer.Render(ctx, render.Input{
		Root:    p.root,
		Schema:  schema,
		Choices: choices,
		Data:    data,
	})
	if err != nil {
		return p.fail(ctx, cfg, failurePrefix, &FatalLoadError{Stage: "render", Err: err})
	}

	if p.isDisposed() {
		return ErrDisposed
	}
	p.install(ctx, doc)
	title := TitleFromSchema(schema)
	if err := p.surface.SetTitle(ctx, title); err != nil {
		p.logger.WarnContext(ctx, "set surface title", "error", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return ErrDisposed
	}
	p.state = StateReady
	p.lastErr = nil
	p.loaded = cfg
	p.title = title
	p.logger.InfoContext(ctx, "panel ready", "title", title, "schema", cfg.SchemaPath)
	return nil
}

func (p *Panel) loadOptional(ctx context.Context, kind resource.Kind, path string) any {
	outcome := p.ctrl.resources.LoadOptional(ctx, kind, path)
	if !outcome.Loaded() {
		p.logger.WarnContext(ctx, "optional document not loaded, using empty default",
			"kind", kind, "path", path, "cause", resource.CauseOf(outcome.Err), "error", outcome.Err)
		p.ctrl.notifier.Warn(ctx, optionalWarnings[kind])
	}
	return outcome.OrEmpty()
}

func (p *Panel) fail(ctx context.Context, cfg editor.Config, prefix string, err *FatalLoadError) error {
	p.logger.ErrorContext(ctx, "panel load failed", "stage", err.Stage, "cause", err.Cause(), "error", err.Err)

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	p.state = StateFailed
	p.lastErr = err
	p.loaded = cfg
	p.mu.Unlock()

	p.install(ctx, p.ctrl.renderer.RenderError(err.Error()))
	p.ctrl.notifier.Error(ctx, fmt.Sprintf("%s: %v", prefix, err))
	return err
}

func (p *Panel) install(ctx context.Context, doc string) {
	if err := p.surface.SetContent(ctx, doc); err != nil {
		p.logger.WarnContext(ctx, "set surface content", "error", err)
	}
}

// visibilityChanged retries a failed panel when it becomes visible. The
// loading guard drops the retry while another load runs.
func (p *Panel) visibilityChanged(ctx context.Context, visible bool) {
	if !visible || p.State() != StateFailed {
		return
	}
	if err := p.Reload(ctx); err != nil && !errors.Is(err, ErrLoadInProgress) && !IsFatal(err) {
		p.logger.DebugContext(ctx, "visibility reload", "error", err)
	}
}

func (p *Panel) isDisposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

// Dispose clears the controller's reference, releases every subscription and
// disposes the surface. Later calls, including the one fired by the surface's
// own dispose event, do nothing.
func (p *Panel) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.state = StateDisposed
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	p.ctrl.release(p)
	for i := len(unsubs) - 1; i >= 0; i-- {
		if unsubs[i] != nil {
			unsubs[i]()
		}
	}
	for _, cmd := range p.dispatcher.Registered() {
		p.dispatcher.Unregister(cmd)
	}
	if err := p.surface.Dispose(); err != nil {
		p.logger.Warn("dispose surface", "error", err)
	}
	p.logger.Info("panel disposed")
}
