package vsclient

import (
	"context"
	"sync"
)

// keyedMutex serializes callers per key. Entries are reference counted and
// removed once no caller holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{slots: make(map[string]*lockSlot)}
}

// lock blocks until key is free or ctx is done.
func (k *keyedMutex) lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			k.release(key, s)
		}, nil
	case <-ctx.Done():
		k.release(key, s)
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(key string, s *lockSlot) {
	k.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
	k.mu.Unlock()
}

func (k *keyedMutex) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}

func noopUnlock() {}

// lock takes the advisory lock for (kind, key) when name locking is on.
func (c *Client) lock(ctx context.Context, kind Kind, key string) (func(), error) {
	if c.locks == nil {
		return noopUnlock, nil
	}
	return c.locks.lock(ctx, string(kind)+":"+key)
}
