// Package configstore persists the editor configuration between sessions.
package configstore

import (
	"context"
	"sync"

	"github.com/goliatone/go-jsoneditor/pkg/editor"
)

// Store reads and writes the persisted editor configuration. Get reports
// false when nothing has been stored yet.
type Store interface {
	Get(ctx context.Context) (editor.Config, bool, error)
	Save(ctx context.Context, cfg editor.Config) error
}

// MemoryStore keeps the configuration in memory.
type MemoryStore struct {
	mu    sync.Mutex
	cfg   editor.Config
	set   bool
	saves int
}

// NewMemoryStore returns a store seeded with cfg when cfg is not zero.
func NewMemoryStore(cfg editor.Config) *MemoryStore {
	cfg = cfg.Normalize()
	return &MemoryStore{cfg: cfg, set: !cfg.IsZero()}
}

func (m *MemoryStore) Get(ctx context.Context) (editor.Config, bool, error) {
	if err := ctx.Err(); err != nil {
		return editor.Config{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, m.set, nil
}

func (m *MemoryStore) Save(ctx context.Context, cfg editor.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg.Normalize()
	m.set = true
	m.saves++
	return nil
}

// Saves counts Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
