package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	errEmptyPath = errors.New("resource loader: empty path")
	errNoFS      = errors.New("resource loader: no filesystem configured")
)

// loadFile reads a document from the local disk. Relative paths resolve
// against the process working directory, like the configuration prompts do.
func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Clean(path))
}

// loadFromFS reads name from files. name must be a valid fs.FS path.
func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	switch {
	case files == nil:
		return nil, errNoFS
	case name == "":
		return nil, errEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, filepath.ToSlash(name))
}
