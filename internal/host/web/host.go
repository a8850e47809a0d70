// Package web hosts the editor surface as a browser page: the document is
// served over HTTP, outbound messages stream over server-sent events and
// inbound messages arrive as POSTed envelopes.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/panel"
)

// Host creates browser surfaces and doubles as the user notifier.
type Host struct {
	opts   Options
	events *broker
	logger *slog.Logger

	mu      sync.Mutex
	current *Surface
	seq     int
}

var (
	_ panel.Host     = (*Host)(nil)
	_ panel.Notifier = (*Host)(nil)
)

// New returns a host with default options plus any overrides.
func New(logger *slog.Logger, fns ...OptionFn) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	opts := NewOptions(fns...)
	return &Host{
		opts:   opts,
		events: newBroker(opts.EventBuffer),
		logger: logger.With("component", "web"),
	}
}

// Options returns a copy of the host configuration.
func (h *Host) Options() Options { return h.opts }

func (h *Host) CreateSurface(ctx context.Context, opts panel.SurfaceOptions) (panel.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	s := newSurface(fmt.Sprintf("surface-%d", h.seq), opts, h.events, h.opts.QueueSize, h.logger)
	h.current = s
	h.logger.InfoContext(ctx, "surface created", "surface", s.id, "view", opts.ViewType)
	return s, nil
}

// Current returns the most recently created surface, or nil.
func (h *Host) Current() *Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

type notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (h *Host) Info(ctx context.Context, msg string) {
	h.logger.InfoContext(ctx, msg)
	h.notify("info", msg)
}

func (h *Host) Warn(ctx context.Context, msg string) {
	h.logger.WarnContext(ctx, msg)
	h.notify("warn", msg)
}

func (h *Host) Error(ctx context.Context, msg string) {
	h.logger.ErrorContext(ctx, msg)
	h.notify("error", msg)
}

func (h *Host) notify(level, msg string) {
	data, err := json.Marshal(notification{Level: level, Message: msg})
	if err != nil {
		return
	}
	h.events.publish(Event{Name: EventNotification, Data: data})
}
