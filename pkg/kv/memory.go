package kv

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-memory Store. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.data[key.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	m.data[key.String()] = slices.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	delete(m.data, key.String())
	m.mu.Unlock()
	return nil
}

// List snapshots matching entries under the read lock, then yields them.
func (m *Memory) List(_ context.Context, prefix Key, reverse bool) iter.Seq2[Entry, error] {
	p := string(prefix.prefixBytes())

	m.mu.RLock()
	var entries []Entry
	for k, v := range m.data {
		if strings.HasPrefix(k, p) {
			entries = append(entries, Entry{Key: decodeKey([]byte(k)), Value: slices.Clone(v)})
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		c := strings.Compare(a.Key.String(), b.Key.String())
		if reverse {
			return -c
		}
		return c
	})

	return func(yield func(Entry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
