package web

import "time"

// Options configures the browser host.
type Options struct {
	BasePath        string
	EventsPath      string
	MessagesPath    string
	VisibilityPath  string
	ClosePath       string
	HealthPath      string
	QueueSize       int
	EventBuffer     int
	MaxMessageBytes int64
	KeepAlive       time.Duration
	Title           string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the stock route layout.
func DefaultOptions() Options {
	return Options{
		BasePath:        "/",
		EventsPath:      "/api/events",
		MessagesPath:    "/api/messages",
		VisibilityPath:  "/api/visibility",
		ClosePath:       "/api/close",
		HealthPath:      "/healthz",
		QueueSize:       64,
		EventBuffer:     32,
		MaxMessageBytes: 8 << 20,
		KeepAlive:       25 * time.Second,
		Title:           "JSON Editor",
	}
}

// NewOptions applies fns over DefaultOptions and clamps invalid values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	def := DefaultOptions()
	if opts.BasePath == "" {
		opts.BasePath = def.BasePath
	}
	if opts.EventsPath == "" {
		opts.EventsPath = def.EventsPath
	}
	if opts.MessagesPath == "" {
		opts.MessagesPath = def.MessagesPath
	}
	if opts.VisibilityPath == "" {
		opts.VisibilityPath = def.VisibilityPath
	}
	if opts.ClosePath == "" {
		opts.ClosePath = def.ClosePath
	}
	if opts.HealthPath == "" {
		opts.HealthPath = def.HealthPath
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = def.EventBuffer
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = def.MaxMessageBytes
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = def.KeepAlive
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	return opts
}

// WithBasePath mounts every route under path.
func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

// WithQueueSize bounds the inbound message queue.
func WithQueueSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QueueSize = size
	}
}

// WithEventBuffer bounds the per-client event buffer.
func WithEventBuffer(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EventBuffer = size
	}
}

// WithMaxMessageBytes caps inbound request bodies.
func WithMaxMessageBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxMessageBytes = n
	}
}

// WithKeepAlive sets the interval of SSE keep-alive comments.
func WithKeepAlive(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.KeepAlive = d
	}
}
