package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileFilter restricts a picker dialog to a set of extensions.
type FileFilter struct {
	Name       string
	Extensions []string
}

// PickerOptions configures one open or save dialog.
type PickerOptions struct {
	Title       string
	DefaultName string
	Filters     []FileFilter
}

// DefaultFilters offers JSON documents first with an unrestricted fallback.
var DefaultFilters = []FileFilter{
	{Name: "JSON files", Extensions: []string{"json"}},
	{Name: "All files", Extensions: []string{"*"}},
}

// Picker prompts the user for a path. An empty path with a nil error means
// the user cancelled.
type Picker interface {
	OpenFile(ctx context.Context, opts PickerOptions) (string, error)
	SaveFile(ctx context.Context, opts PickerOptions) (string, error)
}

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// FileWriter persists saved documents.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// OSWriter writes to the local filesystem, creating parent directories.
type OSWriter struct {
	Perm os.FileMode
}

func (w OSWriter) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("resource: create directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("resource: write %q: %w", path, err)
	}
	return nil
}
