// Package native adapts desktop primitives (file dialogs, the system
// clipboard) to the resource collaborators.
package native

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sqweek/dialog"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

type runFunc func(*dialog.FileBuilder) (string, error)

// Picker shows native open and save dialogs.
type Picker struct {
	load runFunc
	save runFunc
}

// PickerOption configures a Picker.
type PickerOption func(*Picker)

// WithRunners replaces the functions that display the dialogs.
func WithRunners(load, save func(*dialog.FileBuilder) (string, error)) PickerOption {
	return func(p *Picker) {
		if load != nil {
			p.load = load
		}
		if save != nil {
			p.save = save
		}
	}
}

// NewPicker returns a picker backed by the platform dialogs.
func NewPicker(opts ...PickerOption) *Picker {
	p := &Picker{
		load: (*dialog.FileBuilder).Load,
		save: (*dialog.FileBuilder).Save,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

var _ resource.Picker = (*Picker)(nil)

func (p *Picker) OpenFile(ctx context.Context, opts resource.PickerOptions) (string, error) {
	return p.run(ctx, p.load, opts)
}

func (p *Picker) SaveFile(ctx context.Context, opts resource.PickerOptions) (string, error) {
	return p.run(ctx, p.save, opts)
}

func (p *Picker) run(ctx context.Context, show runFunc, opts resource.PickerOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := show(fileDialog(opts))
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("native: file dialog: %w", err)
	}
	return path, nil
}

func fileDialog(opts resource.PickerOptions) *dialog.FileBuilder {
	b := dialog.File()
	if title := strings.TrimSpace(opts.Title); title != "" {
		b = b.Title(title)
	}
	filters := opts.Filters
	if len(filters) == 0 {
		filters = resource.DefaultFilters
	}
	for _, f := range filters {
		b = b.Filter(f.Name, f.Extensions...)
	}
	if opts.DefaultName != "" {
		b = b.SetStartFile(opts.DefaultName)
	}
	return b
}
