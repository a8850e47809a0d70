package resource

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-jsoneditor/internal/resource/loader"
	"github.com/goliatone/go-jsoneditor/pkg/source"
)

// Outcome is the result of loading one document: either a value or an error.
type Outcome struct {
	Kind  Kind
	Path  string
	Value any
	Err   error
}

// Loaded reports whether the document was read and parsed.
func (o Outcome) Loaded() bool {
	return o.Err == nil
}

// OrEmpty returns the loaded value, or an empty object when the load failed
// or produced nothing.
func (o Outcome) OrEmpty() any {
	if o.Err != nil || o.Value == nil {
		return map[string]any{}
	}
	return o.Value
}

// Service implements document loading and the picker/persist/clipboard
// transfers.
type Service struct {
	loader    *loader.Loader
	picker    Picker
	clipboard Clipboard
	writer    FileWriter
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	files     fs.FS
	client    *http.Client
	allowHTTP bool
	timeout   time.Duration
	picker    Picker
	clipboard Clipboard
	writer    FileWriter
	logger    *slog.Logger
}

// WithFileSystem reads local paths from files instead of the OS filesystem.
func WithFileSystem(files fs.FS) Option {
	return func(c *serviceConfig) { c.files = files }
}

// WithHTTPClient enables remote documents using client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *serviceConfig) {
		c.client = client
		c.allowHTTP = client != nil
	}
}

// WithRemoteDocuments toggles http/https support with a default client.
func WithRemoteDocuments(enabled bool) Option {
	return func(c *serviceConfig) { c.allowHTTP = enabled }
}

// WithRequestTimeout bounds remote fetches.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *serviceConfig) { c.timeout = timeout }
}

// WithPicker supplies the open/save dialog collaborator.
func WithPicker(p Picker) Option {
	return func(c *serviceConfig) { c.picker = p }
}

// WithClipboard supplies the clipboard sink.
func WithClipboard(cb Clipboard) Option {
	return func(c *serviceConfig) { c.clipboard = cb }
}

// WithWriter overrides the file writer used by Persist.
func WithWriter(w FileWriter) Option {
	return func(c *serviceConfig) { c.writer = w }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// NewService constructs a Service. Remote documents are enabled by default
// with a 30 second timeout.
func NewService(opts ...Option) *Service {
	cfg := serviceConfig{
		allowHTTP: true,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.writer == nil {
		cfg.writer = OSWriter{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Service{
		loader: loader.New(loader.Options{
			FileSystem:     cfg.files,
			HTTPClient:     cfg.client,
			AllowHTTP:      cfg.allowHTTP,
			RequestTimeout: cfg.timeout,
		}),
		picker:    cfg.picker,
		clipboard: cfg.clipboard,
		writer:    cfg.writer,
		logger:    cfg.logger.With("component", "resource"),
	}
}

// Load reads and parses the document at path. Failures are *LoadError.
func (s *Service) Load(ctx context.Context, kind Kind, path string) (any, error) {
	src, err := source.For(path)
	if err != nil {
		return nil, &LoadError{Kind: kind, Path: path, Cause: CauseNotFound, Err: err}
	}

	raw, err := s.loader.Load(ctx, src)
	if err != nil {
		return nil, readFailure(kind, path, err)
	}

	value, err := Decode(src.Location(), raw)
	if err != nil {
		return nil, parseFailure(kind, path, err)
	}

	s.logger.DebugContext(ctx, "document loaded", "kind", kind, "path", path, "source", src.Kind(), "bytes", len(raw))
	return value, nil
}

// LoadOptional loads a document that may be absent. An empty path is not a
// failure and yields an empty object.
func (s *Service) LoadOptional(ctx context.Context, kind Kind, path string) Outcome {
	out := Outcome{Kind: kind, Path: path}
	if path == "" {
		out.Value = map[string]any{}
		return out
	}
	out.Value, out.Err = s.Load(ctx, kind, path)
	return out
}

// LoadViaPicker asks the user for a data document and loads it. The boolean
// is false when the user cancelled.
func (s *Service) LoadViaPicker(ctx context.Context, label string) (any, bool, error) {
	if s.picker == nil {
		return nil, false, ErrNoPicker
	}
	path, err := s.picker.OpenFile(ctx, PickerOptions{Title: label, Filters: DefaultFilters})
	if err != nil {
		return nil, false, fmt.Errorf("resource: open dialog: %w", err)
	}
	if path == "" {
		s.logger.DebugContext(ctx, "open dialog cancelled", "label", label)
		return nil, false, nil
	}

	value, err := s.Load(ctx, KindData, path)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Persist asks for a destination and writes v as pretty JSON. It returns the
// chosen path and false when the user cancelled.
func (s *Service) Persist(ctx context.Context, v any) (string, bool, error) {
	if s.picker == nil {
		return "", false, ErrNoPicker
	}
	data, err := MarshalPretty(v)
	if err != nil {
		return "", false, err
	}

	path, err := s.picker.SaveFile(ctx, PickerOptions{
		Title:       "Save JSON",
		DefaultName: "data.json",
		Filters:     DefaultFilters,
	})
	if err != nil {
		return "", false, fmt.Errorf("resource: save dialog: %w", err)
	}
	if path == "" {
		s.logger.DebugContext(ctx, "save dialog cancelled")
		return "", false, nil
	}

	if err := s.writer.WriteFile(ctx, path, data); err != nil {
		return path, false, err
	}
	s.logger.InfoContext(ctx, "document saved", "path", path, "bytes", len(data))
	return path, true, nil
}

// ExportToClipboard copies v as pretty JSON.
func (s *Service) ExportToClipboard(ctx context.Context, v any) error {
	if s.clipboard == nil {
		return ErrNoClipboard
	}
	data, err := MarshalPretty(v)
	if err != nil {
		return err
	}
	if err := s.clipboard.WriteText(ctx, string(data)); err != nil {
		return fmt.Errorf("resource: clipboard: %w", err)
	}
	return nil
}
