// Package loader reads raw document bytes from files, fs.FS entries or HTTP
// endpoints.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-jsoneditor/pkg/source"
)

// Options configures a Loader.
type Options struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
}

// Loader delegates to file, fs.FS or HTTP strategies based on the source kind.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// New constructs a Loader from pre-resolved options.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the raw bytes behind src.
func (l *Loader) Load(ctx context.Context, src source.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("resource loader: source is nil")
	}

	switch src.Kind() {
	case source.KindFile:
		if l.fs != nil {
			return loadFromFS(ctx, l.fs, src.Location())
		}
		return loadFile(ctx, src.Location())
	case source.KindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case source.KindURL:
		if !l.allowHTTP {
			return nil, errors.New("resource loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, errors.New("resource loader: unsupported source kind")
	}
}
