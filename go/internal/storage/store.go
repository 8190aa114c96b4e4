// Package storage is the key-value persistence adapter. Every backend stores
// whole JSON blobs under string keys with last-write-wins semantics.
package storage

import (
	"context"
	"sync"
)

// Logical keys.
const (
	KeyRoster  = "players"
	KeySession = "timerState"
)

// Store is durable key-value storage for JSON blobs.
type Store interface {
	// Get returns the blob stored under key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// NopStore stands in when no storage medium is available. Reads report
// absent and writes are discarded.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopStore) Set(context.Context, string, []byte) error         { return nil }
func (NopStore) Remove(context.Context, string) error              { return nil }

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Prefixed namespaces every key of an underlying store, one namespace per
// profile.
type Prefixed struct {
	Store  Store
	Prefix string
}

// WithPrefix wraps s so that keys become "<prefix>:<key>". An empty prefix
// returns s unchanged.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return Prefixed{Store: s, Prefix: prefix}
}

func (p Prefixed) key(k string) string { return p.Prefix + ":" + k }

func (p Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.Store.Get(ctx, p.key(key))
}

func (p Prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.Store.Set(ctx, p.key(key), value)
}

func (p Prefixed) Remove(ctx context.Context, key string) error {
	return p.Store.Remove(ctx, p.key(key))
}
