package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	jsoneditor "github.com/goliatone/go-jsoneditor"
	"github.com/goliatone/go-jsoneditor/internal/configflow"
	"github.com/goliatone/go-jsoneditor/internal/host/native"
	"github.com/goliatone/go-jsoneditor/internal/host/web"
	applog "github.com/goliatone/go-jsoneditor/internal/log"
	"github.com/goliatone/go-jsoneditor/internal/prompt"
	"github.com/goliatone/go-jsoneditor/internal/settings"
	"github.com/goliatone/go-jsoneditor/internal/watch"
	"github.com/goliatone/go-jsoneditor/pkg/app"
	"github.com/goliatone/go-jsoneditor/pkg/configstore"
	"github.com/goliatone/go-jsoneditor/pkg/panel"
	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

func main() {
	settingsPath := flag.String("settings", "", "settings file (defaults to JSONEDITOR_SETTINGS or the user config dir)")
	configure := flag.Bool("configure", false, "run the configuration flow before opening the editor")
	addr := flag.String("addr", "", "listen address, overrides the addr setting")
	flag.Parse()

	if err := run(*settingsPath, *addr, *configure); err != nil {
		fmt.Fprintf(os.Stderr, "jsoneditor: %v\n", err)
		os.Exit(1)
	}
}

func run(settingsPath, addr string, configure bool) error {
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger, closer := applog.New(os.Stderr, applog.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.Source,
		File:      cfg.Log.File,
	})
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := web.New(applog.WithComponent(logger, "web"), web.WithBasePath(cfg.BasePath))
	driver := prompt.NewSurvey()

	resources := resource.NewService(
		resource.WithPicker(picker(cfg, driver)),
		resource.WithClipboard(native.NewClipboard()),
		resource.WithRemoteDocuments(cfg.Remote),
		resource.WithRequestTimeout(cfg.RequestTimeout),
		resource.WithLogger(logger),
	)

	selection, err := cfg.ThemeSelection()
	if err != nil {
		return err
	}
	renderer, err := jsoneditor.NewRenderer(
		render.WithTheme(selection),
		render.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctrl, err := jsoneditor.NewController(host,
		panel.WithResources(resources),
		panel.WithRenderer(renderer),
		panel.WithNotifier(host),
		panel.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer ctrl.Dispose()

	store, err := configstore.NewFileStore(cfg.Store.Path, configstore.WithLogger(logger))
	if err != nil {
		return err
	}

	options := []app.Option{
		app.WithConfigurator(configflow.New(driver, store, configflow.WithLogger(logger))),
		app.WithNotifier(host),
		app.WithRoot(cfg.Root),
		app.WithLogger(logger),
	}

	var editorApp *app.App
	if cfg.Watch {
		watcher, err := watch.New(func(ctx context.Context, paths []string) {
			editorApp.FilesChanged(ctx, paths)
		}, watch.WithDebounce(cfg.WatchDebounce), watch.WithLogger(logger))
		if err != nil {
			return err
		}
		options = append(options, app.WithWatcher(watcher))
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("file watcher stopped", "error", err)
			}
		}()
	}

	editorApp, err = jsoneditor.NewApp(ctrl, store, options...)
	if err != nil {
		return err
	}

	served := make(chan error, 1)
	listening := make(chan struct{})
	go func() {
		served <- host.Serve(ctx, cfg.Addr, func(a net.Addr) {
			fmt.Fprintf(os.Stdout, "JSON Data Editor running at http://%s%s\n", a.String(), host.Options().BasePath)
			close(listening)
		})
	}()

	select {
	case <-listening:
	case err := <-served:
		return err
	}

	open := editorApp.OpenEditor
	if configure {
		open = editorApp.OpenConfig
	}
	p, err := open(ctx)
	switch {
	case err != nil:
		logger.Error("open editor", "error", err)
	case p == nil:
		logger.Info("no configuration, waiting for shutdown")
	case p.Err() != nil:
		logger.Warn("editor opened with a load failure", "error", p.Err())
	}

	err = <-served
	logger.Info("shutting down")
	return err
}

func picker(cfg settings.Settings, driver prompt.Driver) resource.Picker {
	if cfg.Picker == settings.PickerPrompt {
		return prompt.NewPicker(driver)
	}
	return native.NewPicker()
}
