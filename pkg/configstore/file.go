package configstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsoneditor/pkg/editor"
)

const (
	appDirName  = "jsoneditor"
	fileName    = "config.yaml"
	defaultPerm = 0o600
)

// document is the on-disk shape. optionsPath is the legacy key for the
// choices document and is only read.
type document struct {
	SchemaPath  string `yaml:"schemaPath"`
	ChoicesPath string `yaml:"choicesPath,omitempty"`
	OptionsPath string `yaml:"optionsPath,omitempty"`
	DataPath    string `yaml:"dataPath,omitempty"`
}

func (d document) config() editor.Config {
	cfg := editor.Config{
		SchemaPath:  d.SchemaPath,
		ChoicesPath: d.ChoicesPath,
		DataPath:    d.DataPath,
	}
	if strings.TrimSpace(cfg.ChoicesPath) == "" {
		cfg.ChoicesPath = d.OptionsPath
	}
	return cfg.Normalize()
}

// DefaultPath returns the per-user location of the config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("configstore: user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// FileStore keeps the configuration in a YAML file.
type FileStore struct {
	path   string
	perm   fs.FileMode
	logger *slog.Logger

	mu sync.Mutex
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) FileOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileMode sets the permissions of the written file.
func WithFileMode(perm fs.FileMode) FileOption {
	return func(s *FileStore) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

// NewFileStore returns a store backed by path. An empty path resolves to
// DefaultPath.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	s := &FileStore{
		path:   filepath.Clean(path),
		perm:   defaultPerm,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("component", "configstore")
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(ctx context.Context) (editor.Config, bool, error) {
	if err := ctx.Err(); err != nil {
		return editor.Config{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return editor.Config{}, false, nil
		}
		return editor.Config{}, false, fmt.Errorf("configstore: read %s: %w", s.path, err)
	}
	cfg, err := decode(raw)
	if err != nil {
		return editor.Config{}, false, fmt.Errorf("configstore: parse %s: %w", s.path, err)
	}
	return cfg, !cfg.IsZero(), nil
}

// Save writes cfg through a temporary file renamed over the target.
func (s *FileStore) Save(ctx context.Context, cfg editor.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg = cfg.Normalize()
	out, err := encode(cfg)
	if err != nil {
		return fmt.Errorf("configstore: encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, _ := os.ReadFile(s.path)
	if bytes.Equal(before, out) {
		s.logger.DebugContext(ctx, "config unchanged", "path", s.path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("configstore: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, s.perm); err != nil {
		return fmt.Errorf("configstore: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("configstore: replace: %w", err)
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.DebugContext(ctx, "config saved", "path", s.path, "changes", describeChanges(string(before), string(out)))
	}
	return nil
}

func decode(raw []byte) (editor.Config, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return editor.Config{}, nil
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return editor.Config{}, err
	}
	return doc.config(), nil
}

func encode(cfg editor.Config) ([]byte, error) {
	return yaml.Marshal(document{
		SchemaPath:  cfg.SchemaPath,
		ChoicesPath: cfg.ChoicesPath,
		DataPath:    cfg.DataPath,
	})
}

// describeChanges is swapped in tests to observe when a diff is computed.
var describeChanges = Describe

// Describe renders the changed lines between two config files as "- old"
// and "+ new" lines.
func Describe(before, after string) string {
	if before == after {
		return "no changes"
	}
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, df := range diffs {
		var mark string
		switch df.Type {
		case dmp.DiffDelete:
			mark = "- "
		case dmp.DiffInsert:
			mark = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(df.Text, "\n"), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(mark)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
