package vsclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ListFiles returns every file owned by the account.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	files, err := c.backend.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("vsclient: list files: %w", err)
	}
	return files, nil
}

// CreateFile uploads the local file at path. The remote filename is the base
// name of path. An empty purpose means DefaultPurpose.
func (c *Client) CreateFile(ctx context.Context, path string, purpose FilePurpose) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vsclient: open %s: %w", path, err)
	}
	defer f.Close()
	return c.UploadFile(ctx, f, filepath.Base(path), purpose)
}

// UploadFile uploads content read from r under filename.
func (c *Client) UploadFile(ctx context.Context, r io.Reader, filename string, purpose FilePurpose) (*File, error) {
	if filename == "" {
		return nil, errors.New("vsclient: filename is required")
	}
	if purpose == "" {
		purpose = DefaultPurpose
	}
	file, err := c.backend.UploadFile(ctx, r, filename, purpose)
	if err != nil {
		return nil, fmt.Errorf("vsclient: upload %s: %w", filename, err)
	}
	return file, nil
}

// DeleteFile deletes a remote file. Unknown IDs fail with ErrNotFound.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("vsclient: file id is required")
	}
	if err := c.backend.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("vsclient: delete file %s: %w", fileID, err)
	}
	return nil
}

// GetFile retrieves a file by ID. Unknown IDs fail with ErrNotFound.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, errors.New("vsclient: file id is required")
	}
	file, err := c.backend.GetFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("vsclient: get file %s: %w", fileID, err)
	}
	return file, nil
}

// FindFilesByName returns every file named name, in listing order.
func (c *Client) FindFilesByName(ctx context.Context, name string) ([]File, error) {
	files, err := c.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	var matches []File
	for _, f := range files {
		if f.Filename == name {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// GetFileByName returns the file named name. When several files share the
// name, the client's TieBreak picks one. ok is false if there is none.
func (c *Client) GetFileByName(ctx context.Context, name string) (file *File, ok bool, err error) {
	matches, err := c.FindFilesByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}
	picked := pick(matches, c.tieBreak, func(f File) int64 { return f.CreatedAt.UnixNano() })
	return &picked, true, nil
}

// FileExists reports whether any file is named name.
func (c *Client) FileExists(ctx context.Context, name string) (bool, error) {
	_, ok, err := c.GetFileByName(ctx, name)
	return ok, err
}

// GetOrCreateFile returns the file whose name equals the base name of path,
// uploading path first if there is none.
func (c *Client) GetOrCreateFile(ctx context.Context, path string, purpose FilePurpose) (*File, error) {
	f, _, err := c.EnsureFile(ctx, path, purpose)
	return f, err
}

// EnsureFile is GetOrCreateFile that also reports whether path was
// uploaded by this call.
func (c *Client) EnsureFile(ctx context.Context, path string, purpose FilePurpose) (*File, bool, error) {
	name := filepath.Base(path)
	unlock, err := c.lock(ctx, KindFile, name)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	existing, ok, err := c.GetFileByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		c.emit(ctx, Event{Kind: KindFile, Action: ActionGet, Key: name, ID: existing.ID})
		return existing, false, nil
	}

	created, err := c.CreateFile(ctx, path, purpose)
	if err != nil {
		return nil, false, err
	}
	c.emit(ctx, Event{Kind: KindFile, Action: ActionCreate, Key: name, ID: created.ID})
	return created, true, nil
}

// GetOrUploadFile is GetOrCreateFile for content that is not on local disk.
// open is only called when no file named filename exists.
func (c *Client) GetOrUploadFile(ctx context.Context, filename string, purpose FilePurpose, open func() (io.ReadCloser, error)) (*File, bool, error) {
	unlock, err := c.lock(ctx, KindFile, filename)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	existing, ok, err := c.GetFileByName(ctx, filename)
	if err != nil {
		return nil, false, err
	}
	if ok {
		c.emit(ctx, Event{Kind: KindFile, Action: ActionGet, Key: filename, ID: existing.ID})
		return existing, false, nil
	}

	rc, err := open()
	if err != nil {
		return nil, false, fmt.Errorf("vsclient: open %s: %w", filename, err)
	}
	defer rc.Close()

	created, err := c.UploadFile(ctx, rc, filename, purpose)
	if err != nil {
		return nil, false, err
	}
	c.emit(ctx, Event{Kind: KindFile, Action: ActionCreate, Key: filename, ID: created.ID})
	return created, true, nil
}

// pick applies a tie-break policy to a non-empty match list.
func pick[T any](matches []T, t TieBreak, createdAt func(T) int64) T {
	if t != TieBreakNewest {
		return matches[0]
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if createdAt(m) > createdAt(best) {
			best = m
		}
	}
	return best
}
