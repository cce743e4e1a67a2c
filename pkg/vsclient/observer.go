package vsclient

import (
	"context"
	"log/slog"
)

// Kind names a resource kind in events and lock keys.
type Kind string

const (
	KindFile            Kind = "file"
	KindVectorStore     Kind = "vector_store"
	KindVectorStoreFile Kind = "vector_store_file"
)

// Action is the outcome of a get-or-create call.
type Action string

const (
	// ActionGet means an existing resource was returned.
	ActionGet Action = "get"

	// ActionCreate means a new resource was created.
	ActionCreate Action = "create"

	// ActionSkip means CreateVectorStore found the name taken and did nothing.
	ActionSkip Action = "skip"
)

// Event describes one get-or-create decision.
type Event struct {
	Kind   Kind   `json:"kind"`
	Action Action `json:"action"`
	// Key is the lookup key: a filename, a store name, or "store/file".
	Key string `json:"key"`
	// ID is the resource ID returned to the caller, empty for ActionSkip.
	ID string `json:"id,omitempty"`
}

// Hook receives get-or-create decisions. It is called synchronously on the
// caller's goroutine and must not block.
type Hook func(ctx context.Context, ev Event)

func (c *Client) emit(ctx context.Context, ev Event) {
	level := slog.LevelDebug
	if ev.Action == ActionCreate {
		level = slog.LevelInfo
	}
	c.logger.Log(ctx, level, "vsclient: "+string(ev.Action),
		"kind", ev.Kind, "key", ev.Key, "id", ev.ID)
	if c.hook != nil {
		c.hook(ctx, ev)
	}
}
