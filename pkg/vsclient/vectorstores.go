package vsclient

import (
	"context"
	"errors"
	"fmt"
)

var errStoreNameRequired = errors.New("vsclient: vector store name is required")

// ListVectorStores returns every vector store owned by the account.
func (c *Client) ListVectorStores(ctx context.Context) ([]VectorStore, error) {
	stores, err := c.backend.ListVectorStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("vsclient: list vector stores: %w", err)
	}
	return stores, nil
}

// CreateVectorStore creates a vector store named name unless one already
// exists. created is false, and vs nil, when the name is taken.
func (c *Client) CreateVectorStore(ctx context.Context, name string) (vs *VectorStore, created bool, err error) {
	if name == "" {
		return nil, false, errStoreNameRequired
	}
	unlock, err := c.lock(ctx, KindVectorStore, name)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	exists, err := c.VectorStoreExists(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if exists {
		c.emit(ctx, Event{Kind: KindVectorStore, Action: ActionSkip, Key: name})
		return nil, false, nil
	}
	vs, err = c.createVectorStore(ctx, name)
	if err != nil {
		return nil, false, err
	}
	c.emit(ctx, Event{Kind: KindVectorStore, Action: ActionCreate, Key: name, ID: vs.ID})
	return vs, true, nil
}

func (c *Client) createVectorStore(ctx context.Context, name string) (*VectorStore, error) {
	vs, err := c.backend.CreateVectorStore(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("vsclient: create vector store %q: %w", name, err)
	}
	return vs, nil
}

// DeleteVectorStore deletes a vector store by ID.
func (c *Client) DeleteVectorStore(ctx context.Context, storeID string) error {
	if storeID == "" {
		return errors.New("vsclient: vector store id is required")
	}
	if err := c.backend.DeleteVectorStore(ctx, storeID); err != nil {
		return fmt.Errorf("vsclient: delete vector store %s: %w", storeID, err)
	}
	return nil
}

// GetVectorStore retrieves a vector store by ID.
func (c *Client) GetVectorStore(ctx context.Context, storeID string) (*VectorStore, error) {
	if storeID == "" {
		return nil, errors.New("vsclient: vector store id is required")
	}
	vs, err := c.backend.GetVectorStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: get vector store %s: %w", storeID, err)
	}
	return vs, nil
}

// FindVectorStoresByName returns every vector store named name.
func (c *Client) FindVectorStoresByName(ctx context.Context, name string) ([]VectorStore, error) {
	stores, err := c.ListVectorStores(ctx)
	if err != nil {
		return nil, err
	}
	var matches []VectorStore
	for _, vs := range stores {
		if vs.Name == name {
			matches = append(matches, vs)
		}
	}
	return matches, nil
}

// VectorStoreExists reports whether any vector store is named name.
func (c *Client) VectorStoreExists(ctx context.Context, name string) (bool, error) {
	_, ok, err := c.GetVectorStoreByName(ctx, name)
	return ok, err
}

// GetVectorStoreByName returns the vector store named name, applying the
// client's TieBreak on duplicates. ok is false if there is none.
func (c *Client) GetVectorStoreByName(ctx context.Context, name string) (vs *VectorStore, ok bool, err error) {
	matches, err := c.FindVectorStoresByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}
	picked := pick(matches, c.tieBreak, func(v VectorStore) int64 { return v.CreatedAt.UnixNano() })
	return &picked, true, nil
}

// GetOrCreateVectorStore returns the vector store named name, creating it
// if absent.
func (c *Client) GetOrCreateVectorStore(ctx context.Context, name string) (*VectorStore, error) {
	vs, _, err := c.EnsureVectorStore(ctx, name)
	return vs, err
}

// EnsureVectorStore is GetOrCreateVectorStore that also reports whether
// the store was created by this call.
func (c *Client) EnsureVectorStore(ctx context.Context, name string) (*VectorStore, bool, error) {
	if name == "" {
		return nil, false, errStoreNameRequired
	}
	unlock, err := c.lock(ctx, KindVectorStore, name)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	existing, ok, err := c.GetVectorStoreByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		c.emit(ctx, Event{Kind: KindVectorStore, Action: ActionGet, Key: name, ID: existing.ID})
		return existing, false, nil
	}

	vs, err := c.createVectorStore(ctx, name)
	if err != nil {
		return nil, false, err
	}
	c.emit(ctx, Event{Kind: KindVectorStore, Action: ActionCreate, Key: name, ID: vs.ID})
	return vs, true, nil
}
