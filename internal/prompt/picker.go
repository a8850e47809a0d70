package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

// Picker is a terminal resource.Picker. An empty answer cancels.
type Picker struct {
	driver Driver
}

// NewPicker returns a picker asking through driver.
func NewPicker(driver Driver) *Picker {
	return &Picker{driver: driver}
}

var _ resource.Picker = (*Picker)(nil)

func (p *Picker) OpenFile(ctx context.Context, opts resource.PickerOptions) (string, error) {
	path, err := p.driver.Input(ctx, InputConfig{
		Message:       label(opts.Title, "Open file"),
		Help:          filterHelp(opts.Filters),
		CompletePaths: true,
		Validator: func(answer string) error {
			answer = strings.TrimSpace(answer)
			if answer == "" {
				return nil
			}
			info, err := os.Stat(answer)
			if err != nil {
				return fmt.Errorf("cannot open %s", answer)
			}
			if info.IsDir() {
				return errors.New("path is a directory")
			}
			return nil
		},
	})
	if errors.Is(err, ErrAborted) {
		return "", nil
	}
	return strings.TrimSpace(path), err
}

func (p *Picker) SaveFile(ctx context.Context, opts resource.PickerOptions) (string, error) {
	path, err := p.driver.Input(ctx, InputConfig{
		Message:       label(opts.Title, "Save file"),
		Default:       opts.DefaultName,
		Help:          filterHelp(opts.Filters),
		CompletePaths: true,
	})
	if errors.Is(err, ErrAborted) {
		return "", nil
	}
	return strings.TrimSpace(path), err
}

func label(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

func filterHelp(filters []resource.FileFilter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, fmt.Sprintf("%s (*.%s)", f.Name, strings.Join(f.Extensions, ", *.")))
	}
	return strings.Join(parts, "; ")
}
