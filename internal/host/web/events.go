package web

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Event names sent on the SSE stream besides dispatcher messages.
const (
	EventReady        = "ready"
	EventMessage      = "message"
	EventContent      = "content"
	EventTitle        = "title"
	EventReveal       = "reveal"
	EventNotification = "notification"
	EventClosed       = "closed"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data []byte
}

// WriteTo writes e in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\n", e.Name)
	data := e.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	for _, line := range bytes.Split(data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

type broker struct {
	mu     sync.Mutex
	seq    int
	subs   map[int]chan Event
	buffer int
}

func newBroker(buffer int) *broker {
	return &broker{subs: map[int]chan Event{}, buffer: buffer}
}

func (b *broker) subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	ch := make(chan Event, b.buffer)
	b.subs[b.seq] = ch
	return b.seq, ch
}

func (b *broker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// publish delivers ev to every subscriber without blocking and returns how
// many clients received it. A client whose buffer is full misses the event.
func (b *broker) publish(ev Event) (delivered, dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			dropped++
		}
	}
	return delivered, dropped
}

func (b *broker) clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
