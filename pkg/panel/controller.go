package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/editor"
)

const (
	defaultViewType = "jsonSchemaEditor"
	surfaceTitle    = "JSON Data Editor"
)

// Controller owns the singleton Panel.
type Controller struct {
	host      Host
	resources ResourceLoader
	renderer  ContentRenderer
	notifier  Notifier
	bus       CommandBus
	logger    *slog.Logger
	viewType  string

	mu      sync.Mutex
	current *Panel
	seq     uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithResources sets the document loader.
func WithResources(r ResourceLoader) Option {
	return func(c *Controller) { c.resources = r }
}

// WithRenderer sets the content renderer.
func WithRenderer(r ContentRenderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithNotifier sets the user notification channel.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithCommandBus sets the bus used by the openConfig handler.
func WithCommandBus(bus CommandBus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithViewType overrides the view type passed to the host.
func WithViewType(viewType string) Option {
	return func(c *Controller) {
		if viewType != "" {
			c.viewType = viewType
		}
	}
}

// New constructs a Controller. Host, resources and renderer are required.
func New(host Host, opts ...Option) (*Controller, error) {
	c := &Controller{
		host:     host,
		logger:   slog.Default(),
		viewType: defaultViewType,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	switch {
	case c.host == nil:
		return nil, errors.New("panel: host is required")
	case c.resources == nil:
		return nil, errors.New("panel: resource loader is required")
	case c.renderer == nil:
		return nil, errors.New("panel: content renderer is required")
	}
	if c.notifier == nil {
		c.notifier = logNotifier{logger: c.logger}
	}
	c.logger = c.logger.With("component", "panel")
	return c, nil
}

// SetCommandBus attaches the bus after construction. The application and the
// controller reference each other, so one side is wired late.
func (c *Controller) SetCommandBus(bus CommandBus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = bus
}

func (c *Controller) commandBus() CommandBus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus
}

// Current returns the live panel or nil.
func (c *Controller) Current() *Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CreateOrShow reveals the live panel, reloading it when cfg differs by value
// from the config of its last completed load, or creates and initialises a
// new one. A fatal load does not fail the call: the panel shows the error
// document and Err reports the failure.
func (c *Controller) CreateOrShow(ctx context.Context, root string, cfg editor.Config) (*Panel, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if p := c.current; p != nil {
		c.mu.Unlock()
		c.show(ctx, p, cfg)
		return p, nil
	}

	surface, err := c.host.CreateSurface(ctx, SurfaceOptions{
		ViewType: c.viewType,
		Title:    surfaceTitle,
		Root:     root,
	})
	if err != nil {
		c.mu.Unlock()
		c.notifier.Error(ctx, fmt.Sprintf("Failed to create editor: %v", err))
		return nil, fmt.Errorf("panel: create surface: %w", err)
	}

	c.seq++
	p := newPanel(c, fmt.Sprintf("panel-%d", c.seq), surface, root, cfg)
	if err := p.bind(); err != nil {
		c.mu.Unlock()
		_ = surface.Dispose()
		return nil, err
	}
	c.current = p
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "panel created", "panel", p.id, "surface", surface.ID(), "schema", cfg.SchemaPath)
	if err := p.initialize(ctx); err != nil && !IsFatal(err) {
		c.logger.WarnContext(ctx, "panel initialisation interrupted", "panel", p.id, "error", err)
	}
	return p, nil
}

func (c *Controller) show(ctx context.Context, p *Panel, cfg editor.Config) {
	if err := p.Reveal(ctx); err != nil {
		c.logger.WarnContext(ctx, "reveal panel", "panel", p.id, "error", err)
	}
	if p.LoadedConfig().Equal(cfg) {
		return
	}
	if err := p.UpdateWithConfig(ctx, cfg); err != nil && !IsFatal(err) {
		c.logger.WarnContext(ctx, "update panel config", "panel", p.id, "error", err)
	}
}

// UpdateCurrent reloads the live panel with cfg and reveals it. Without a
// live panel it does nothing.
func (c *Controller) UpdateCurrent(ctx context.Context, cfg editor.Config) error {
	p := c.Current()
	if p == nil {
		return nil
	}
	err := p.UpdateWithConfig(ctx, cfg)
	if rerr := p.Reveal(ctx); rerr != nil && !errors.Is(rerr, ErrDisposed) {
		c.logger.WarnContext(ctx, "reveal panel", "panel", p.id, "error", rerr)
	}
	return err
}

// Dispose disposes the live panel, if any.
func (c *Controller) Dispose() {
	if p := c.Current(); p != nil {
		p.Dispose()
	}
}

// release clears the singleton slot when it still refers to p.
func (c *Controller) release(p *Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == p {
		c.current = nil
	}
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Info(ctx context.Context, msg string)  { n.logger.InfoContext(ctx, msg) }
func (n logNotifier) Warn(ctx context.Context, msg string)  { n.logger.WarnContext(ctx, msg) }
func (n logNotifier) Error(ctx context.Context, msg string) { n.logger.ErrorContext(ctx, msg) }
