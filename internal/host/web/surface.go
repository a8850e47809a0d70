package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/panel"
)

var (
	// ErrSurfaceClosed is returned by operations on a disposed surface.
	ErrSurfaceClosed = errors.New("web: surface closed")
	// ErrQueueFull is returned when the inbound queue cannot take a message.
	ErrQueueFull = errors.New("web: inbound queue full")
)

type job struct {
	run  func(context.Context)
	done chan struct{}
}

// Surface is one editor page. Inbound messages and visibility changes run on
// a single worker goroutine in arrival order.
type Surface struct {
	id     string
	opts   panel.SurfaceOptions
	events *broker
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	queue  chan job
	stop   chan struct{}

	mu        sync.Mutex
	content   string
	version   int
	title     string
	disposed  bool
	seq       int
	onMessage map[int]func(context.Context, []byte)
	onVisible map[int]func(context.Context, bool)
	onDispose map[int]func()
}

var _ panel.Surface = (*Surface)(nil)

func newSurface(id string, opts panel.SurfaceOptions, events *broker, queueSize int, logger *slog.Logger) *Surface {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Surface{
		id:        id,
		opts:      opts,
		events:    events,
		logger:    logger.With("surface", id),
		ctx:       ctx,
		cancel:    cancel,
		queue:     make(chan job, queueSize),
		stop:      make(chan struct{}),
		title:     opts.Title,
		onMessage: map[int]func(context.Context, []byte){},
		onVisible: map[int]func(context.Context, bool){},
		onDispose: map[int]func(){},
	}
	go s.work()
	return s
}

func (s *Surface) work() {
	for {
		select {
		case <-s.stop:
			return
		case j := <-s.queue:
			if j.run != nil {
				j.run(s.ctx)
			}
			if j.done != nil {
				close(j.done)
			}
		}
	}
}

func (s *Surface) enqueue(j job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSurfaceClosed
	}
	select {
	case s.queue <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Deliver queues an inbound message for the message subscribers.
func (s *Surface) Deliver(raw []byte) error {
	payload := append([]byte(nil), raw...)
	return s.enqueue(job{run: func(ctx context.Context) {
		for _, fn := range s.messageHandlers() {
			fn(ctx, payload)
		}
	}})
}

// SetVisible queues a visibility change.
func (s *Surface) SetVisible(visible bool) error {
	return s.enqueue(job{run: func(ctx context.Context) {
		for _, fn := range s.visibilityHandlers() {
			fn(ctx, visible)
		}
	}})
}

// Flush waits until every message queued before the call has been handled.
func (s *Surface) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := s.enqueue(job{done: done}); err != nil {
		if errors.Is(err, ErrSurfaceClosed) {
			return nil
		}
		return err
	}
	select {
	case <-done:
		return nil
	case <-s.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Surface) ID() string { return s.id }

// Options returns the options the surface was created with.
func (s *Surface) Options() panel.SurfaceOptions { return s.opts }

func (s *Surface) PostMessage(_ context.Context, payload []byte) error {
	if s.isDisposed() {
		return ErrSurfaceClosed
	}
	s.publish(Event{Name: EventMessage, Data: payload})
	return nil
}

func (s *Surface) SetContent(_ context.Context, doc string) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrSurfaceClosed
	}
	s.content = doc
	s.version++
	version := s.version
	s.mu.Unlock()

	data, _ := json.Marshal(map[string]int{"version": version})
	s.publish(Event{Name: EventContent, Data: data})
	return nil
}

func (s *Surface) SetTitle(_ context.Context, title string) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrSurfaceClosed
	}
	s.title = title
	s.mu.Unlock()

	data, _ := json.Marshal(title)
	s.publish(Event{Name: EventTitle, Data: data})
	return nil
}

func (s *Surface) Reveal(context.Context) error {
	if s.isDisposed() {
		return ErrSurfaceClosed
	}
	s.publish(Event{Name: EventReveal})
	return nil
}

// Dispose closes the surface and notifies dispose subscribers once.
func (s *Surface) Dispose() error {
	s.mu.Lock()
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

	close(s.stop)
	s.cancel()
	s.publish(Event{Name: EventClosed})
	for _, fn := range handlers {
		fn()
	}
	s.logger.Debug("surface disposed")
	return nil
}

func (s *Surface) OnMessage(fn func(context.Context, []byte)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next()
	s.onMessage[id] = fn
	return func() { s.drop(id) }
}

func (s *Surface) OnVisibilityChange(fn func(context.Context, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next()
	s.onVisible[id] = fn
	return func() { s.drop(id) }
}

func (s *Surface) OnDispose(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next()
	s.onDispose[id] = fn
	return func() { s.drop(id) }
}

// Document returns the installed document and its version.
func (s *Surface) Document() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content, s.version
}

// Title returns the current title.
func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Disposed reports whether the surface was closed.
func (s *Surface) Disposed() bool { return s.isDisposed() }

// Subscriptions counts live subscriptions.
func (s *Surface) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.onMessage) + len(s.onVisible) + len(s.onDispose)
}

func (s *Surface) next() int {
	s.seq++
	return s.seq
}

func (s *Surface) drop(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.onMessage, id)
	delete(s.onVisible, id)
	delete(s.onDispose, id)
}

func (s *Surface) messageHandlers() []func(context.Context, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(context.Context, []byte), 0, len(s.onMessage))
	for _, fn := range s.onMessage {
		out = append(out, fn)
	}
	return out
}

func (s *Surface) visibilityHandlers() []func(context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(context.Context, bool), 0, len(s.onVisible))
	for _, fn := range s.onVisible {
		out = append(out, fn)
	}
	return out
}

func (s *Surface) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Surface) publish(ev Event) {
	if _, dropped := s.events.publish(ev); dropped > 0 {
		s.logger.Warn("event dropped for slow clients", "event", ev.Name, "clients", dropped)
	}
}
