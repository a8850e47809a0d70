// Package app wires the panel controller to the persisted configuration and
// exposes the editor's entry points as named commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/configstore"
	"github.com/goliatone/go-jsoneditor/pkg/editor"
	"github.com/goliatone/go-jsoneditor/pkg/panel"
)

const notConfiguredMessage = "Please configure the editor first."

var (
	// ErrNotConfigured is returned by ReloadForm when no config was saved.
	ErrNotConfigured = errors.New("app: editor is not configured")
	// ErrNoConfigurator is returned when the configuration flow is needed but
	// none was provided.
	ErrNoConfigurator = errors.New("app: no configuration flow")
	// ErrUnknownCommand is returned by Execute for unregistered names.
	ErrUnknownCommand = errors.New("app: unknown command")
)

// Configurator collects a configuration from the user. The boolean is false
// when the user cancelled.
type Configurator interface {
	Run(ctx context.Context) (editor.Config, bool, error)
}

// FileWatcher follows the files of the active configuration.
type FileWatcher interface {
	Set(paths []string) error
}

// App implements panel.CommandBus.
type App struct {
	ctrl     *panel.Controller
	store    configstore.Store
	flow     Configurator
	notifier panel.Notifier
	watcher  FileWatcher
	root     string
	logger   *slog.Logger

	flowMu sync.Mutex
}

var _ panel.CommandBus = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithConfigurator sets the configuration flow.
func WithConfigurator(flow Configurator) Option {
	return func(a *App) { a.flow = flow }
}

// WithNotifier sets where user-facing errors go.
func WithNotifier(n panel.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithWatcher keeps watcher pointed at the active configuration.
func WithWatcher(w FileWatcher) Option {
	return func(a *App) { a.watcher = w }
}

// WithRoot sets the extension root passed to the controller.
func WithRoot(root string) Option {
	return func(a *App) { a.root = root }
}

// WithLogger sets the app logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds the app and registers it as the controller's command bus.
func New(ctrl *panel.Controller, store configstore.Store, opts ...Option) (*App, error) {
	if ctrl == nil {
		return nil, errors.New("app: controller is required")
	}
	if store == nil {
		return nil, errors.New("app: config store is required")
	}
	a := &App{ctrl: ctrl, store: store, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.logger = a.logger.With("component", "app")
	if a.notifier == nil {
		a.notifier = logNotifier{logger: a.logger}
	}
	ctrl.SetCommandBus(a)
	return a, nil
}

// Execute runs a named command.
func (a *App) Execute(ctx context.Context, name string) error {
	a.logger.DebugContext(ctx, "execute", "command", name)
	switch name {
	case panel.BusOpenEditor:
		_, err := a.OpenEditor(ctx)
		return err
	case panel.BusOpenConfig:
		_, err := a.OpenConfig(ctx)
		return err
	case panel.BusReloadForm:
		return a.ReloadForm(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// OpenEditor shows the editor for the stored config, running the
// configuration flow first when nothing usable is stored. It returns nil
// without error when the user cancels the flow.
func (a *App) OpenEditor(ctx context.Context) (*panel.Panel, error) {
	cfg, ok, err := a.store.Get(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "stored config unreadable", "error", err)
		ok = false
	}
	if ok && cfg.Validate() == nil {
		return a.show(ctx, cfg)
	}
	return a.OpenConfig(ctx)
}

// OpenConfig runs the configuration flow and shows the editor with the
// result. The live panel reloads when the config changed.
func (a *App) OpenConfig(ctx context.Context) (*panel.Panel, error) {
	if a.flow == nil {
		return nil, ErrNoConfigurator
	}
	a.flowMu.Lock()
	cfg, ok, err := a.flow.Run(ctx)
	a.flowMu.Unlock()
	if err != nil {
		a.notifier.Error(ctx, fmt.Sprintf("Configuration failed: %v", err))
		return nil, err
	}
	if !ok {
		a.logger.InfoContext(ctx, "configuration cancelled")
		return nil, nil
	}
	return a.show(ctx, cfg)
}

// ReloadForm reloads the live panel with the stored config.
func (a *App) ReloadForm(ctx context.Context) error {
	cfg, ok, err := a.store.Get(ctx)
	if err != nil || !ok {
		a.notifier.Error(ctx, notConfiguredMessage)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		return ErrNotConfigured
	}
	err = a.ctrl.UpdateCurrent(ctx, cfg)
	a.follow(cfg)
	if errors.Is(err, panel.ErrLoadInProgress) || panel.IsFatal(err) {
		return nil
	}
	return err
}

// FilesChanged reloads the live panel. It matches watch.ChangeFunc.
func (a *App) FilesChanged(ctx context.Context, paths []string) {
	p := a.ctrl.Current()
	if p == nil {
		return
	}
	a.logger.InfoContext(ctx, "files changed, reloading", "paths", paths)
	if err := p.Reload(ctx); err != nil && !errors.Is(err, panel.ErrLoadInProgress) && !panel.IsFatal(err) {
		a.logger.WarnContext(ctx, "reload after change", "error", err)
	}
}

func (a *App) show(ctx context.Context, cfg editor.Config) (*panel.Panel, error) {
	p, err := a.ctrl.CreateOrShow(ctx, a.root, cfg)
	if err != nil {
		return nil, err
	}
	a.follow(cfg)
	return p, nil
}

func (a *App) follow(cfg editor.Config) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Set(cfg.Paths()); err != nil {
		a.logger.Warn("watch config files", "error", err)
	}
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Info(ctx context.Context, msg string)  { n.logger.InfoContext(ctx, msg) }
func (n logNotifier) Warn(ctx context.Context, msg string)  { n.logger.WarnContext(ctx, msg) }
func (n logNotifier) Error(ctx context.Context, msg string) { n.logger.ErrorContext(ctx, msg) }
