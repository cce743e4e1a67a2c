package vsclient

import (
	"context"
	"errors"
	"fmt"
)

// ListVectorStoreFiles returns the membership records of a vector store.
func (c *Client) ListVectorStoreFiles(ctx context.Context, storeID string) ([]Membership, error) {
	if storeID == "" {
		return nil, errors.New("vsclient: vector store id is required")
	}
	members, err := c.backend.ListVectorStoreFiles(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: list vector store %s files: %w", storeID, err)
	}
	return members, nil
}

// ListVectorStoreFilenames resolves the filename of every membership in a
// vector store. A membership whose file cannot be resolved produces a
// result with Err set instead of failing the whole listing; only the
// membership listing itself can return an error.
func (c *Client) ListVectorStoreFilenames(ctx context.Context, storeID string) ([]FilenameResult, error) {
	members, err := c.ListVectorStoreFiles(ctx, storeID)
	if err != nil {
		return nil, err
	}
	results := make([]FilenameResult, 0, len(members))
	for _, m := range members {
		fileID := m.FileID
		if fileID == "" {
			fileID = m.ID
		}
		file, err := c.backend.GetFile(ctx, fileID)
		if err != nil {
			rerr := &ResolutionError{MembershipID: m.ID, Err: err}
			c.logger.WarnContext(ctx, "vsclient: filename unresolved",
				"vector_store", storeID, "membership", m.ID, "error", err)
			results = append(results, FilenameResult{MembershipID: m.ID, Err: rerr})
			continue
		}
		results = append(results, FilenameResult{MembershipID: m.ID, Filename: file.Filename})
	}
	return results, nil
}

// CreateVectorStoreFile attaches a file to a vector store.
func (c *Client) CreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*Membership, error) {
	if storeID == "" || fileID == "" {
		return nil, errors.New("vsclient: vector store id and file id are required")
	}
	m, err := c.backend.CreateVectorStoreFile(ctx, storeID, fileID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: attach file %s to %s: %w", fileID, storeID, err)
	}
	return m, nil
}

// DeleteVectorStoreFile detaches a file from a vector store. The file itself
// is not deleted.
func (c *Client) DeleteVectorStoreFile(ctx context.Context, storeID, fileID string) error {
	if storeID == "" || fileID == "" {
		return errors.New("vsclient: vector store id and file id are required")
	}
	if err := c.backend.DeleteVectorStoreFile(ctx, storeID, fileID); err != nil {
		return fmt.Errorf("vsclient: detach file %s from %s: %w", fileID, storeID, err)
	}
	return nil
}

// GetVectorStoreFile retrieves a membership by its ID.
func (c *Client) GetVectorStoreFile(ctx context.Context, storeID, membershipID string) (*Membership, error) {
	if storeID == "" || membershipID == "" {
		return nil, errors.New("vsclient: vector store id and membership id are required")
	}
	m, err := c.backend.GetVectorStoreFile(ctx, storeID, membershipID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: get vector store file %s in %s: %w", membershipID, storeID, err)
	}
	return m, nil
}

// GetOrCreateVectorStoreFile returns the membership of fileID in storeID,
// attaching the file if it is not a member yet.
func (c *Client) GetOrCreateVectorStoreFile(ctx context.Context, storeID, fileID string) (*Membership, error) {
	m, _, err := c.EnsureVectorStoreFile(ctx, storeID, fileID)
	return m, err
}

// EnsureVectorStoreFile is GetOrCreateVectorStoreFile that also reports
// whether the file was attached by this call.
func (c *Client) EnsureVectorStoreFile(ctx context.Context, storeID, fileID string) (*Membership, bool, error) {
	key := storeID + "/" + fileID
	unlock, err := c.lock(ctx, KindVectorStoreFile, key)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	members, err := c.ListVectorStoreFiles(ctx, storeID)
	if err != nil {
		return nil, false, err
	}
	for i := range members {
		if members[i].FileID == fileID {
			c.emit(ctx, Event{Kind: KindVectorStoreFile, Action: ActionGet, Key: key, ID: members[i].ID})
			return &members[i], false, nil
		}
	}

	m, err := c.CreateVectorStoreFile(ctx, storeID, fileID)
	if err != nil {
		return nil, false, err
	}
	c.emit(ctx, Event{Kind: KindVectorStoreFile, Action: ActionCreate, Key: key, ID: m.ID})
	return m, true, nil
}

// GetFileFromVectorStoreFile returns the file behind a membership ID.
// The service keys memberships by file ID, so the lookup goes straight to
// the files endpoint.
func (c *Client) GetFileFromVectorStoreFile(ctx context.Context, membershipID string) (*File, error) {
	if membershipID == "" {
		return nil, errors.New("vsclient: membership id is required")
	}
	file, err := c.backend.GetFile(ctx, membershipID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: resolve membership %s: %w", membershipID, err)
	}
	return file, nil
}
