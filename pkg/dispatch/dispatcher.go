// Package dispatch routes envelopes arriving from the editor surface to
// ordered command handlers and posts envelopes back to it.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Target is the surface a message came from and where responses go.
type Target interface {
	ID() string
	PostMessage(ctx context.Context, payload []byte) error
}

// Handler processes one inbound message.
type Handler func(ctx context.Context, msg Message, target Target) error

// HandlerID identifies a registration so it can be removed later.
type HandlerID uint64

// FailureReporter surfaces handler failures to the user.
type FailureReporter func(ctx context.Context, err *HandlerError)

type registration struct {
	id      HandlerID
	handler Handler
}

// Dispatcher stores handlers per command in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Command][]registration
	nextID   HandlerID

	logger *slog.Logger
	report FailureReporter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFailureReporter sets the callback receiving handler failures.
func WithFailureReporter(report FailureReporter) Option {
	return func(d *Dispatcher) { d.report = report }
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Command][]registration),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.logger = d.logger.With("component", "dispatch")
	return d
}

// Register appends h to the handlers for cmd.
func (d *Dispatcher) Register(cmd Command, h Handler) (HandlerID, error) {
	if !cmd.Valid() {
		return 0, fmt.Errorf("dispatch: unknown command %q", string(cmd))
	}
	if h == nil {
		return 0, fmt.Errorf("dispatch: handler for %q is required", string(cmd))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.handlers[cmd] = append(d.handlers[cmd], registration{id: id, handler: h})
	return id, nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (d *Dispatcher) MustRegister(cmd Command, h Handler) HandlerID {
	id, err := d.Register(cmd, h)
	if err != nil {
		panic(err)
	}
	return id
}

// Unregister removes the listed handlers for cmd, or every handler for cmd
// when no ids are given. It returns the number of handlers removed.
func (d *Dispatcher) Unregister(cmd Command, ids ...HandlerID) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.handlers[cmd]
	if len(ids) == 0 {
		delete(d.handlers, cmd)
		return len(current)
	}

	drop := make(map[HandlerID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := current[:0:0]
	for _, reg := range current {
		if _, ok := drop[reg.id]; !ok {
			kept = append(kept, reg)
		}
	}
	if len(kept) == 0 {
		delete(d.handlers, cmd)
	} else {
		d.handlers[cmd] = kept
	}
	return len(current) - len(kept)
}

// Has reports whether cmd has at least one handler.
func (d *Dispatcher) Has(cmd Command) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[cmd]) > 0
}

// Registered returns the commands with handlers, sorted by name.
func (d *Dispatcher) Registered() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Command, 0, len(d.handlers))
	for cmd := range d.handlers {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dispatch decodes raw and runs the matching handlers. Malformed, unknown and
// unregistered messages are logged and dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, raw []byte) {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		d.logger.DebugContext(ctx, "ignoring malformed message", "error", err)
		return
	}
	cmd, ok := ParseCommand(env.Command)
	if !ok {
		d.logger.DebugContext(ctx, "ignoring unknown command", "command", env.Command)
		return
	}
	d.DispatchMessage(ctx, target, Message{Command: cmd, Data: env.Data})
}

// DispatchMessage runs every handler registered for msg.Command, one after
// another. A failing handler is reported and does not stop the rest.
func (d *Dispatcher) DispatchMessage(ctx context.Context, target Target, msg Message) {
	d.mu.RLock()
	regs := append([]registration(nil), d.handlers[msg.Command]...)
	d.mu.RUnlock()

	if len(regs) == 0 {
		d.logger.DebugContext(ctx, "no handler registered", "command", msg.Command)
		return
	}

	for _, reg := range regs {
		if err := d.invoke(ctx, reg.handler, msg, target); err != nil {
			d.fail(ctx, err)
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, h Handler, msg Message, target Target) (failure *HandlerError) {
	defer func() {
		if r := recover(); r != nil {
			failure = &HandlerError{Command: msg.Command, Err: fmt.Errorf("panic: %v", r), Panicked: true}
		}
	}()
	if err := h(ctx, msg, target); err != nil {
		return &HandlerError{Command: msg.Command, Err: err}
	}
	return nil
}

func (d *Dispatcher) fail(ctx context.Context, err *HandlerError) {
	d.logger.ErrorContext(ctx, "command handler failed", "command", err.Command, "panicked", err.Panicked, "error", err.Err)
	if d.report != nil {
		d.report(ctx, err)
	}
}

// PostMessage sends {command, data} to target. Delivery is best effort:
// failures are logged and never returned.
func (d *Dispatcher) PostMessage(ctx context.Context, target Target, cmd Command, payload any) {
	if target == nil {
		d.logger.DebugContext(ctx, "dropping message without target", "command", cmd)
		return
	}
	raw, err := EncodeEnvelope(cmd, payload)
	if err == nil {
		err = target.PostMessage(ctx, raw)
	}
	if err != nil {
		derr := &DeliveryError{Command: cmd, Target: target.ID(), Err: err}
		d.logger.WarnContext(ctx, "message delivery failed", "command", cmd, "target", derr.Target, "error", derr.Err)
	}
}
