// Package configflow collects an editor configuration from the user on the
// terminal and persists it once every referenced file exists.
package configflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-jsoneditor/internal/prompt"
	"github.com/goliatone/go-jsoneditor/pkg/configstore"
	"github.com/goliatone/go-jsoneditor/pkg/editor"
)

const (
	heading      = "JSON Data Editor - Configuration"
	schemaLabel  = "Schema JSON file"
	choicesLabel = "Options JSON file (optional)"
	dataLabel    = "Data JSON file (optional)"
	confirmLabel = "Confirm & Continue?"
)

// Flow asks for the three document paths, validates them and saves the
// result to a store.
type Flow struct {
	driver prompt.Driver
	store  configstore.Store
	stat   editor.StatFunc
	logger *slog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithStat replaces os.Stat for the file existence check.
func WithStat(stat editor.StatFunc) Option {
	return func(f *Flow) { f.stat = stat }
}

// WithLogger sets the flow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New returns a flow prompting through driver and saving to store.
func New(driver prompt.Driver, store configstore.Store, opts ...Option) *Flow {
	f := &Flow{driver: driver, store: store, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.logger = f.logger.With("component", "configflow")
	return f
}

// Run prompts until the user confirms a valid configuration or cancels. The
// boolean is false when the user cancelled; nothing is saved in that case.
func (f *Flow) Run(ctx context.Context) (editor.Config, bool, error) {
	current, _, err := f.store.Get(ctx)
	if err != nil {
		f.logger.WarnContext(ctx, "stored config unreadable, starting empty", "error", err)
		current = editor.Config{}
	}
	if err := f.driver.Info(ctx, heading); err != nil {
		return editor.Config{}, false, err
	}

	for {
		cfg, err := f.ask(ctx, current)
		if errors.Is(err, prompt.ErrAborted) {
			return editor.Config{}, false, nil
		}
		if err != nil {
			return editor.Config{}, false, err
		}

		ok, err := f.driver.Confirm(ctx, prompt.ConfirmConfig{Message: confirmLabel, Default: true})
		if errors.Is(err, prompt.ErrAborted) || (err == nil && !ok) {
			f.logger.DebugContext(ctx, "configuration cancelled")
			return editor.Config{}, false, nil
		}
		if err != nil {
			return editor.Config{}, false, err
		}

		if verr := cfg.CheckFiles(f.stat); verr != nil {
			var vErr *editor.ValidationError
			msg := verr.Error()
			if errors.As(verr, &vErr) {
				msg = vErr.Message
			}
			if err := f.driver.Info(ctx, msg); err != nil {
				return editor.Config{}, false, err
			}
			current = cfg
			continue
		}

		if err := f.store.Save(ctx, cfg); err != nil {
			return editor.Config{}, false, fmt.Errorf("configflow: save: %w", err)
		}
		f.logger.InfoContext(ctx, "configuration saved", "schema", cfg.SchemaPath)
		return cfg, true, nil
	}
}

func (f *Flow) ask(ctx context.Context, current editor.Config) (editor.Config, error) {
	schema, err := f.driver.Input(ctx, prompt.InputConfig{
		Message:       schemaLabel,
		Default:       current.SchemaPath,
		CompletePaths: true,
		Validator: func(answer string) error {
			return editor.Config{SchemaPath: answer}.Validate()
		},
	})
	if err != nil {
		return editor.Config{}, err
	}
	choices, err := f.driver.Input(ctx, prompt.InputConfig{
		Message:       choicesLabel,
		Default:       current.ChoicesPath,
		CompletePaths: true,
	})
	if err != nil {
		return editor.Config{}, err
	}
	data, err := f.driver.Input(ctx, prompt.InputConfig{
		Message:       dataLabel,
		Default:       current.DataPath,
		CompletePaths: true,
	})
	if err != nil {
		return editor.Config{}, err
	}
	return editor.Config{SchemaPath: schema, ChoicesPath: choices, DataPath: data}.Normalize(), nil
}
