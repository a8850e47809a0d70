package testsupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/dispatch"
	"github.com/goliatone/go-jsoneditor/pkg/panel"
)

// ErrSurfaceDisposed is returned by FakeSurface operations after disposal.
var ErrSurfaceDisposed = errors.New("testsupport: surface disposed")

// FakeHost creates in-memory surfaces.
type FakeHost struct {
	Err error

	mu       sync.Mutex
	surfaces []*FakeSurface
}

var _ panel.Host = (*FakeHost)(nil)

func (h *FakeHost) CreateSurface(_ context.Context, opts panel.SurfaceOptions) (panel.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}
	s := NewFakeSurface(fmt.Sprintf("surface-%d", len(h.surfaces)+1))
	s.Options = opts
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

// Created returns how many surfaces were created.
func (h *FakeHost) Created() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.surfaces)
}

// Last returns the most recently created surface.
func (h *FakeHost) Last() *FakeSurface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.surfaces) == 0 {
		return nil
	}
	return h.surfaces[len(h.surfaces)-1]
}

// FakeSurface records everything the controller does to it and lets tests
// emit surface events.
type FakeSurface struct {
	Options panel.SurfaceOptions
	// OnSetContent, when set, observes every installed document.
	OnSetContent func(doc string)

	id string

	mu        sync.Mutex
	contents  []string
	title     string
	reveals   int
	disposed  bool
	disposals int
	posted    [][]byte
	nextSub   int
	onMessage map[int]func(context.Context, []byte)
	onVisible map[int]func(context.Context, bool)
	onDispose map[int]func()
}

var _ panel.Surface = (*FakeSurface)(nil)

// NewFakeSurface returns an empty surface with the given id.
func NewFakeSurface(id string) *FakeSurface {
	return &FakeSurface{
		id:        id,
		onMessage: make(map[int]func(context.Context, []byte)),
		onVisible: make(map[int]func(context.Context, bool)),
		onDispose: make(map[int]func()),
	}
}

func (s *FakeSurface) ID() string { return s.id }

func (s *FakeSurface) PostMessage(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSurfaceDisposed
	}
	s.posted = append(s.posted, append([]byte(nil), payload...))
	return nil
}

func (s *FakeSurface) SetContent(_ context.Context, doc string) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrSurfaceDisposed
	}
	s.contents = append(s.contents, doc)
	hook := s.OnSetContent
	s.mu.Unlock()
	if hook != nil {
		hook(doc)
	}
	return nil
}

func (s *FakeSurface) SetTitle(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSurfaceDisposed
	}
	s.title = title
	return nil
}

func (s *FakeSurface) Reveal(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSurfaceDisposed
	}
	s.reveals++
	return nil
}

// Dispose marks the surface disposed and fires dispose subscribers once.
func (s *FakeSurface) Dispose() error {
	s.mu.Lock()
	s.disposals++
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	handlers := make([]func(), 0, len(s.onDispose))
	for _, fn := range s.onDispose {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

func (s *FakeSurface) OnMessage(fn func(context.Context, []byte)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.subscribe()
	s.onMessage[id] = fn
	return func() { s.unsubscribe(id) }
}

func (s *FakeSurface) OnVisibilityChange(fn func(context.Context, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.subscribe()
	s.onVisible[id] = fn
	return func() { s.unsubscribe(id) }
}

func (s *FakeSurface) OnDispose(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.subscribe()
	s.onDispose[id] = fn
	return func() { s.unsubscribe(id) }
}

func (s *FakeSurface) subscribe() int {
	s.nextSub++
	return s.nextSub
}

func (s *FakeSurface) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.onMessage, id)
	delete(s.onVisible, id)
	delete(s.onDispose, id)
}

// Emit delivers a raw inbound message to every message subscriber.
func (s *FakeSurface) Emit(ctx context.Context, raw []byte) {
	s.mu.Lock()
	handlers := make([]func(context.Context, []byte), 0, len(s.onMessage))
	for _, fn := range s.onMessage {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(ctx, raw)
	}
}

// EmitCommand encodes cmd and payload and delivers them like Emit.
func (s *FakeSurface) EmitCommand(ctx context.Context, cmd dispatch.Command, payload any) error {
	raw, err := dispatch.EncodeEnvelope(cmd, payload)
	if err != nil {
		return err
	}
	s.Emit(ctx, raw)
	return nil
}

// SetVisible notifies visibility subscribers.
func (s *FakeSurface) SetVisible(ctx context.Context, visible bool) {
	s.mu.Lock()
	handlers := make([]func(context.Context, bool), 0, len(s.onVisible))
	for _, fn := range s.onVisible {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(ctx, visible)
	}
}

// Content returns the most recently installed document.
func (s *FakeSurface) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.contents) == 0 {
		return ""
	}
	return s.contents[len(s.contents)-1]
}

// Contents returns every installed document in order.
func (s *FakeSurface) Contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.contents...)
}

// Title returns the current title.
func (s *FakeSurface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Reveals returns how often Reveal was called.
func (s *FakeSurface) Reveals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reveals
}

// Disposed reports whether the surface was disposed.
func (s *FakeSurface) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Disposals returns how many times Dispose was called.
func (s *FakeSurface) Disposals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposals
}

// Subscriptions returns the number of live subscriptions.
func (s *FakeSurface) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.onMessage) + len(s.onVisible) + len(s.onDispose)
}

// Posted returns the decoded outbound envelopes.
func (s *FakeSurface) Posted() []dispatch.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dispatch.Envelope, 0, len(s.posted))
	for _, raw := range s.posted {
		env, err := dispatch.DecodeEnvelope(raw)
		if err != nil {
			continue
		}
		out = append(out, env)
	}
	return out
}
