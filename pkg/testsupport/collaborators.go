package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

// StubPicker answers open and save dialogs with fixed paths. An empty path
// simulates the user cancelling.
type StubPicker struct {
	OpenPath string
	SavePath string
	Err      error

	mu     sync.Mutex
	opened []resource.PickerOptions
	saved  []resource.PickerOptions
}

var _ resource.Picker = (*StubPicker)(nil)

func (p *StubPicker) OpenFile(_ context.Context, opts resource.PickerOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opened = append(p.opened, opts)
	if p.Err != nil {
		return "", p.Err
	}
	return p.OpenPath, nil
}

func (p *StubPicker) SaveFile(_ context.Context, opts resource.PickerOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, opts)
	if p.Err != nil {
		return "", p.Err
	}
	return p.SavePath, nil
}

// Opened returns the options of every open dialog shown so far.
func (p *StubPicker) Opened() []resource.PickerOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]resource.PickerOptions(nil), p.opened...)
}

// Saved returns the options of every save dialog shown so far.
func (p *StubPicker) Saved() []resource.PickerOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]resource.PickerOptions(nil), p.saved...)
}

// MemoryClipboard records clipboard writes.
type MemoryClipboard struct {
	Err error

	mu    sync.Mutex
	texts []string
}

var _ resource.Clipboard = (*MemoryClipboard)(nil)

func (c *MemoryClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.texts = append(c.texts, text)
	return nil
}

// Last returns the most recent clipboard contents.
func (c *MemoryClipboard) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.texts) == 0 {
		return ""
	}
	return c.texts[len(c.texts)-1]
}

// MemoryWriter keeps written files in memory.
type MemoryWriter struct {
	Err error

	mu    sync.Mutex
	files map[string][]byte
}

var _ resource.FileWriter = (*MemoryWriter)(nil)

func (w *MemoryWriter) WriteFile(_ context.Context, path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	if w.files == nil {
		w.files = make(map[string][]byte)
	}
	w.files[path] = append([]byte(nil), data...)
	return nil
}

// File returns the contents written to path.
func (w *MemoryWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	return data, ok
}

// Notice is one recorded notification.
type Notice struct {
	Level   string
	Message string
}

// RecordingNotifier captures user-facing notifications.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *RecordingNotifier) Info(_ context.Context, msg string)  { n.record("info", msg) }
func (n *RecordingNotifier) Warn(_ context.Context, msg string)  { n.record("warn", msg) }
func (n *RecordingNotifier) Error(_ context.Context, msg string) { n.record("error", msg) }

func (n *RecordingNotifier) record(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{Level: level, Message: msg})
}

// Notices returns every notification recorded so far.
func (n *RecordingNotifier) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

// Filter returns the messages recorded at level.
func (n *RecordingNotifier) Filter(level string) []string {
	var out []string
	for _, notice := range n.Notices() {
		if notice.Level == level {
			out = append(out, notice.Message)
		}
	}
	return out
}
